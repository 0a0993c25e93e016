package credentials

import (
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the locally persisted token bundle obtained from a completed
// device authorization grant. One credential exists per local user profile.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`

	// ExpiresAt is the absolute expiry computed when the credential was
	// stored. Nil when the provider never communicated a lifetime; such
	// credentials are treated as always expired to force re-authorization.
	ExpiresAt *time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

// AuthorizationHeader renders the credential as an Authorization header
// value, defaulting the scheme to Bearer when the provider omitted one.
func (c *Credential) AuthorizationHeader() string {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return fmt.Sprintf("%s %s", tokenType, c.AccessToken)
}

// Token converts the stored credential to an oauth2 token. A nil ExpiresAt
// maps to a zero Expiry.
func (c *Credential) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.ExpiresAt != nil {
		tok.Expiry = *c.ExpiresAt
	}
	return tok
}
