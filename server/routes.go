package server

func (s *Server) initRoutes() {
	// OAuth2 device grant endpoints
	s.RegisterRouteHandler("GET "+RouteWellKnownOpenIDConfig, ChainMiddleware(s.WellKnownOpenIDConfig(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteDeviceAuthorization, ChainMiddleware(s.DeviceAuthorization(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuth2Token, ChainMiddleware(s.Token(), s.APIMiddleware()...))

	// Verification URI handed to device-grant clients
	s.RegisterRouteHandler("GET "+RouteDeviceVerification, ChainMiddleware(s.DeviceVerificationRedirect(), s.APIMiddleware()...))

	// Session API for the web frontend and the CLI
	s.RegisterRouteHandler("GET "+RouteAPIMe, ChainMiddleware(s.Me(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPILogin, ChainMiddleware(s.Login(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPILogout, ChainMiddleware(s.Logout(), s.APIMiddleware()...))

	// Device approval gate (requires an authenticated user)
	s.RegisterRouteHandler("POST "+RouteAPIDeviceApprove, ChainMiddleware(s.DeviceApprove(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIDeviceDeny, ChainMiddleware(s.DeviceDeny(), s.APIMiddleware()...))
}
