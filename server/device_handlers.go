package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/clients"
	"github.com/orbital-cli/orbital/deviceauth"
	"github.com/orbital-cli/orbital/oauth2"
)

// DeviceAuthorization starts a device grant: issues a device/user code pair
// for the requesting client.
func (s *Server) DeviceAuthorization() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		clientID := r.PostFormValue("client_id")
		if clientID == "" {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "client_id is required", http.StatusBadRequest)
			return
		}
		scope := r.PostFormValue("scope")

		resp, err := s.deviceAuth.Issue(clientID, scope)
		if err != nil {
			switch {
			case errors.Is(err, deviceauth.ErrInvalidClient):
				writeJSONError(w, oauth2.ErrorInvalidClient, "unknown client", http.StatusUnauthorized)
			case errors.Is(err, clients.ErrInvalidScope):
				writeJSONError(w, oauth2.ErrorInvalidScope, "scope not allowed for this client", http.StatusBadRequest)
			default:
				log.Error().Err(err).Msg("device authorization failed")
				writeJSONError(w, oauth2.ErrorServerError, "failed to issue device code", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

// Token is the token endpoint. Only the device_code grant is served; the
// client polls here until the user decides.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "Failed to parse form data", http.StatusBadRequest)
			return
		}

		grantType := r.PostFormValue("grant_type")
		if oauth2.GrantType(grantType) != oauth2.DeviceCodeGrant {
			writeJSONError(w, oauth2.ErrorUnsupportedGrantType, "unsupported grant_type", http.StatusBadRequest)
			return
		}

		deviceCode := r.PostFormValue("device_code")
		clientID := r.PostFormValue("client_id")
		if deviceCode == "" || clientID == "" {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "device_code and client_id are required", http.StatusBadRequest)
			return
		}

		resp, err := s.deviceAuth.Exchange(deviceCode, clientID)
		if err != nil {
			s.writeExchangeError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) writeExchangeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deviceauth.ErrAuthorizationPending):
		writeJSONError(w, oauth2.ErrorAuthorizationPending, "user has not yet decided", http.StatusBadRequest)
	case errors.Is(err, deviceauth.ErrSlowDown):
		writeJSONError(w, oauth2.ErrorSlowDown, "polling too frequently", http.StatusBadRequest)
	case errors.Is(err, deviceauth.ErrAccessDenied):
		writeJSONError(w, oauth2.ErrorAccessDenied, "user denied the authorization", http.StatusBadRequest)
	case errors.Is(err, deviceauth.ErrExpiredToken):
		writeJSONError(w, oauth2.ErrorExpiredToken, "device code has expired", http.StatusBadRequest)
	case errors.Is(err, deviceauth.ErrInvalidGrant):
		writeJSONError(w, oauth2.ErrorInvalidGrant, "unknown device code", http.StatusBadRequest)
	case errors.Is(err, deviceauth.ErrInvalidClient):
		writeJSONError(w, oauth2.ErrorInvalidClient, "unknown client", http.StatusUnauthorized)
	default:
		log.Error().Err(err).Msg("device code exchange failed")
		writeJSONError(w, oauth2.ErrorServerError, "failed to exchange device code", http.StatusInternalServerError)
	}
}

// DeviceVerificationRedirect sends the user's browser from the advertised
// verification URI to the approval page on the web frontend, carrying the
// user_code query parameter across when present.
func (s *Server) DeviceVerificationRedirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := s.config.GetApprovalPageURL()
		if userCode := r.URL.Query().Get("user_code"); userCode != "" {
			target += "?user_code=" + url.QueryEscape(userCode)
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

type deviceDecisionRequest struct {
	UserCode string `json:"userCode"`
}

// DeviceApprove grants a pending device authorization on behalf of the
// authenticated user.
func (s *Server) DeviceApprove() http.HandlerFunc {
	return s.deviceDecisionHandler(s.gate.Approve, "approved")
}

// DeviceDeny rejects a pending device authorization on behalf of the
// authenticated user.
func (s *Server) DeviceDeny() http.HandlerFunc {
	return s.deviceDecisionHandler(s.gate.Deny, "denied")
}

func (s *Server) deviceDecisionHandler(decide func(rawCode, approverID string) error, outcome string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolution, err := s.requireUser(w, r)
		if resolution == nil || err != nil {
			return
		}

		var req deviceDecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, oauth2.ErrorInvalidRequest, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		if err := decide(req.UserCode, resolution.Identity.UserID); err != nil {
			switch {
			case errors.Is(err, deviceauth.ErrInvalidUserCode):
				writeJSONError(w, oauth2.ErrorInvalidRequest, "unknown user code", http.StatusNotFound)
			case errors.Is(err, deviceauth.ErrInvalidState):
				writeJSONError(w, oauth2.ErrorInvalidRequest, "device authorization is no longer pending", http.StatusBadRequest)
			default:
				log.Error().Err(err).Msg("device decision failed")
				writeJSONError(w, oauth2.ErrorServerError, "failed to record decision", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": outcome})
	}
}
