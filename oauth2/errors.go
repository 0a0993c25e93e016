package oauth2

// OAuth2 error codes returned by the token endpoint during the device grant.
// The first four drive the client's polling loop (RFC 8628 section 3.5); the
// rest are the standard RFC 6749 token endpoint errors.
const (
	ErrorAuthorizationPending = "authorization_pending"
	ErrorSlowDown             = "slow_down"
	ErrorAccessDenied         = "access_denied"
	ErrorExpiredToken         = "expired_token"

	ErrorInvalidRequest         = "invalid_request"
	ErrorInvalidClient          = "invalid_client"
	ErrorInvalidGrant           = "invalid_grant"
	ErrorInvalidScope           = "invalid_scope"
	ErrorUnsupportedGrantType   = "unsupported_grant_type"
	ErrorUnauthorizedClient     = "unauthorized_client"
	ErrorServerError            = "server_error"
	ErrorTemporarilyUnavailable = "temporarily_unavailable"
)

// ErrorResponse is the JSON error payload of the token endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
