package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/identity"
)

type meUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type meSession struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type meResponse struct {
	User    meUser    `json:"user"`
	Session meSession `json:"session"`
}

// Me reports who the caller is. Works for both halves of the dual auth
// path: the browser's session cookie and the CLI's Bearer token. A caller
// with no credential at all gets 401 with a null body, which clients treat
// as "not logged in" rather than a failure.
func (s *Server) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolution, err := s.resolver.Resolve(r)
		switch {
		case errors.Is(err, identity.ErrMalformedAuthHeader):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed authorization header"})
			return
		case errors.Is(err, identity.ErrAuthExpired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
			return
		case err != nil:
			log.Error().Err(err).Msg("identity resolution failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve session"})
			return
		case resolution == nil:
			writeJSON(w, http.StatusUnauthorized, nil)
			return
		}

		writeJSON(w, http.StatusOK, meResponse{
			User: meUser{
				ID:    resolution.Identity.UserID,
				Name:  resolution.Identity.Name,
				Email: resolution.Identity.Email,
			},
			Session: meSession{
				ID:        resolution.Session.ID,
				ExpiresAt: resolution.Session.ExpiresAt,
			},
		})
	}
}
