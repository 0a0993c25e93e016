package oauth2

// DeviceAuthorizationResponse is the device authorization endpoint response
// as defined in RFC 8628 section 3.2.
type DeviceAuthorizationResponse struct {
	// DeviceCode is the opaque code the client polls the token endpoint with.
	// Never shown to the user.
	DeviceCode string `json:"device_code"`

	// UserCode is the short code the user types at the verification URI to
	// link their browser session to this authorization request.
	// Example: "ABCD-1234"
	UserCode string `json:"user_code"`

	// VerificationURI is the page where the user enters the user code.
	VerificationURI string `json:"verification_uri"`

	// VerificationURIComplete optionally embeds the user code in the URI so it
	// can be opened directly (or rendered as a QR code) without typing.
	VerificationURIComplete string `json:"verification_uri_complete,omitempty"`

	// ExpiresIn is the lifetime in seconds of the device and user codes.
	ExpiresIn int `json:"expires_in"`

	// Interval is the minimum number of seconds the client must wait between
	// polling requests to the token endpoint.
	Interval int `json:"interval"`
}
