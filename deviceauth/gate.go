package deviceauth

import "github.com/pkg/errors"

// Provider is the slice of the device authorization service the approval
// gate needs: recording a decision against a canonical user code.
type Provider interface {
	Approve(userCode, approverID string) error
	Deny(userCode, approverID string) error
}

// Gate accepts raw user input from the approval page, normalizes it, and
// forwards the decision to the provider. Approving and denying both require
// an authenticated user; the HTTP layer resolves the approver before calling
// in here.
type Gate struct {
	provider Provider
}

// NewGate creates an approval gate backed by the given provider.
func NewGate(provider Provider) (*Gate, error) {
	if provider == nil {
		return nil, errors.New("[deviceauth.NewGate] provider cannot be nil")
	}
	return &Gate{provider: provider}, nil
}

// Approve grants the device authorization identified by rawCode.
func (g *Gate) Approve(rawCode, approverID string) error {
	code, err := g.validate(rawCode, approverID)
	if err != nil {
		return err
	}
	return g.provider.Approve(code, approverID)
}

// Deny rejects the device authorization identified by rawCode.
func (g *Gate) Deny(rawCode, approverID string) error {
	code, err := g.validate(rawCode, approverID)
	if err != nil {
		return err
	}
	return g.provider.Deny(code, approverID)
}

func (g *Gate) validate(rawCode, approverID string) (string, error) {
	if approverID == "" {
		return "", errors.New("[Gate] approverID cannot be empty")
	}
	code := NormalizeUserCode(rawCode)
	if code == "" {
		return "", ErrInvalidUserCode
	}
	return code, nil
}
