package server

import (
	"net/http"

	"github.com/orbital-cli/orbital/oauth2"
)

// WellKnownOpenIDConfig serves the OIDC discovery document. Device-grant
// clients use it to find the device authorization and token endpoints
// instead of hard-coding paths.
func (s *Server) WellKnownOpenIDConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baseURL := s.config.GetBaseURL()

		resp := map[string]any{
			"issuer":                        baseURL,
			"device_authorization_endpoint": baseURL + RouteDeviceAuthorization,
			"token_endpoint":                baseURL + RouteOAuth2Token,

			"response_types_supported": []string{},
			"subject_types_supported":  []string{"public"},

			// Scopes
			"scopes_supported": []string{
				"openid",  // Caller identity
				"profile", // Returns name
				"email",   // Returns email
			},

			// Token endpoint auth methods: device-grant clients are public
			"token_endpoint_auth_methods_supported": []string{"none"},

			// Grant types
			"grant_types_supported": []string{
				string(oauth2.DeviceCodeGrant),
			},
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "public, max-age=3600") // Cache for 1 hour
		writeJSON(w, http.StatusOK, resp)
	}
}
