// Package identity resolves the caller of an API request to a user, either
// from a browser session cookie or from a Bearer token issued through the
// device authorization grant.
package identity

import (
	"github.com/orbital-cli/orbital/sessions"
)

// Identity is the resolved caller.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Resolution pairs the caller's identity with the session that backs it.
type Resolution struct {
	Identity Identity
	Session  *sessions.ServerSession
}
