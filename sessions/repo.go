package sessions

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Repo defines the interface for authenticated session storage. The identity
// resolver only ever reads from it; writes happen when a grant completes or a
// session is revoked.
type Repo interface {
	// Create stores a new session
	Create(session *ServerSession) error

	// GetByToken retrieves a session by its token, ErrNotFound when absent
	GetByToken(token string) (*ServerSession, error)

	// Delete removes a session by ID
	Delete(sessionID string) error

	// DeleteExpired removes sessions that expired before the given time
	DeleteExpired(before time.Time) error
}
