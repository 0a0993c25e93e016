package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orbital-cli/orbital/users"
	"github.com/pkg/errors"
)

// Manager mints the access tokens handed out when a device grant completes.
// The tokens are signed JWTs, but resource endpoints resolve callers through
// the session store, not by parsing the JWT; the signature exists so the
// token is self-describing and tamper-evident when logged or inspected.
type Manager struct {
	signer            Signer
	issuer            string
	audience          string
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithAudience(audience string) ManagerOption {
	return func(m *Manager) {
		m.audience = audience
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer: signer,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = time.Hour
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// AccessTokenExpiry returns the configured token lifetime.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

// CreateAccessToken signs an access token for the user. Returns the signed
// token and its absolute expiry.
func (m *Manager) CreateAccessToken(user *users.User, clientID, scope string) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("[CreateAccessToken] user is required")
	}

	now := m.nowFunc()
	expiresAt := now.Add(m.accessTokenExpiry)

	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"sub":   user.ID,
		"aud":   clientID,
		"email": user.Email,
		"name":  user.DisplayName(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
		"jti":   uuid.New().String(),
	}
	if scope != "" {
		claims["scope"] = scope
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[CreateAccessToken] sign")
	}
	return signed, expiresAt, nil
}
