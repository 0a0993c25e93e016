package clients

import (
	"errors"
	"strings"
)

var ErrInvalidScope = errors.New("invalid scope")

type ClientType string

const (
	ClientTypeConfidential ClientType = "confidential" // Can keep secrets (server-side apps)
	ClientTypePublic       ClientType = "public"       // Cannot keep secrets (CLIs, SPAs, devices)
)

type Client struct {
	ID          string     `json:"id"`
	Type        ClientType `json:"type"` // public or confidential
	Description string     `json:"description"`
	Secret      string     `json:"secret,omitempty"` // Empty for public clients
	Scopes      []string   `json:"scopes"`           // Allowed scopes for this client
}

// IsPublic returns true if the client is a public client. Device-grant
// clients are public: a CLI binary cannot keep a secret.
func (c *Client) IsPublic() bool {
	return c.Type == ClientTypePublic
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// ValidateScopes checks if all requested scopes are allowed for this client
func (c *Client) ValidateScopes(requestedScopes string) error {
	for _, scope := range strings.Fields(requestedScopes) {
		if !c.HasScope(scope) {
			return ErrInvalidScope
		}
	}
	return nil
}
