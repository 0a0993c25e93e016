package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// OAuth2 device grant routes
	RouteWellKnownOpenIDConfig = "/.well-known/openid-configuration"
	RouteDeviceAuthorization   = "/oauth2/device/code"
	RouteOAuth2Token           = "/oauth2/token"

	// Verification URI advertised to device-grant clients; redirects the
	// user's browser to the approval page on the web frontend.
	RouteDeviceVerification = "/device"

	// API Routes
	RouteAPIMe            = "/api/me"
	RouteAPIDeviceApprove = "/api/device/approve"
	RouteAPIDeviceDeny    = "/api/device/deny"
	RouteAPILogin         = "/api/auth/login"
	RouteAPILogout        = "/api/auth/logout"
)
