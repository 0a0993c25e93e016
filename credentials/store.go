package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	// DefaultExpiryMargin is the safety margin applied when deciding whether a
	// stored credential is still usable. A credential expiring within the
	// margin counts as expired so callers never present an almost-dead token.
	DefaultExpiryMargin = 5 * time.Minute

	configDirName = ".orbital"
	tokenFileName = "token.json"
)

// ErrStore marks persistence failures. A flow that cannot persist its
// credential must not report overall success.
var ErrStore = errors.New("credential store failure")

// Store owns the single local credential record for the current user profile.
// Writes go through a temp file and an atomic rename, so a concurrent reader
// never observes a half-written record and two racing processes degrade to
// last-writer-wins rather than corruption.
type Store struct {
	path    string
	nowTime func() time.Time
}

type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func NewStore(path string, options ...StoreOption) *Store {
	s := &Store{
		path:    path,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// DefaultPath returns the per-user credential record location,
// ~/.orbital/token.json, overridable through ORBITAL_CONFIG_DIR.
func DefaultPath() (string, error) {
	if dir := os.Getenv("ORBITAL_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, tokenFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "[DefaultPath] user home dir")
	}
	return filepath.Join(home, configDirName, tokenFileName), nil
}

// Save persists the credential. ExpiresAt is taken from the token's Expiry
// (zero Expiry means the provider omitted expires_in and is stored as null).
// The parent directory is created on demand with owner-only access.
func (s *Store) Save(tok *oauth2.Token, scope string) error {
	if tok == nil || tok.AccessToken == "" {
		return errors.Wrap(ErrStore, "[Store.Save] missing access token")
	}

	cred := Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Scope:        scope,
		CreatedAt:    s.nowTime(),
	}
	if !tok.Expiry.IsZero() {
		expiresAt := tok.Expiry
		cred.ExpiresAt = &expiresAt
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return errors.Wrapf(ErrStore, "[Store.Save] marshal: %v", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(ErrStore, "[Store.Save] create config dir: %v", err)
	}

	// Write to a temp file in the same directory, then rename over the
	// visible record. Rename is atomic on POSIX filesystems.
	tmp, err := os.CreateTemp(dir, tokenFileName+".tmp-*")
	if err != nil {
		return errors.Wrapf(ErrStore, "[Store.Save] create temp file: %v", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // No-op after a successful rename
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(ErrStore, "[Store.Save] chmod temp file: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(ErrStore, "[Store.Save] write temp file: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(ErrStore, "[Store.Save] close temp file: %v", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrapf(ErrStore, "[Store.Save] replace record: %v", err)
	}
	return nil
}

// Load returns the stored credential, or nil when no usable record exists.
// An unreadable or corrupt record is treated as absence, not as a fatal
// error: the user simply has to log in again.
func (s *Store) Load() *Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil
	}
	if cred.AccessToken == "" {
		return nil
	}
	return &cred
}

// Clear removes the stored credential. A missing record is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(ErrStore, "[Store.Clear] remove record: %v", err)
	}
	return nil
}

// IsExpired reports whether the stored credential is unusable: absent, stored
// without a lifetime, or expiring within margin. The boundary comparison is
// strict (exactly margin remaining is still usable).
func (s *Store) IsExpired(margin time.Duration) bool {
	cred := s.Load()
	if cred == nil || cred.ExpiresAt == nil {
		return true
	}
	return cred.ExpiresAt.Sub(s.nowTime()) < margin
}
