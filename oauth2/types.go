package oauth2

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// DeviceCodeGrant exchanges a device code for tokens, per RFC 8628.
	// Used in: Device Authorization Grant (headless CLIs, TVs, IoT)
	// Token request includes: grant_type, device_code, client_id
	// The client polls the token endpoint with this grant type until the user
	// approves or denies the request on a second, browser-capable device.
	DeviceCodeGrant GrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id, client_secret, scope
	ClientCredentialsGrant GrantType = "client_credentials"
)

// BearerTokenType is the only token type this implementation issues.
// Tells the client to present the token as "Authorization: Bearer <token>".
const BearerTokenType = "Bearer"
