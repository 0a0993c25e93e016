package sessions

import "time"

// ServerSession is an authenticated session record. One is created whenever a
// device grant completes; the browser's first-party cookie sessions share the
// same shape. The session token doubles as the bearer credential the CLI
// presents on API calls.
type ServerSession struct {
	ID        string    // Unique session identifier (UUID)
	Token     string    // Matches the access token issued to the client
	UserID    string    // Owner of the session
	CreatedAt time.Time // When the session was created
	ExpiresAt time.Time // When the session stops resolving
}

// Expired reports whether the session is past its expiry at the given time.
// The boundary counts as expired.
func (s *ServerSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
