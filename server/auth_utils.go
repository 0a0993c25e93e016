package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/identity"
)

// requireUser resolves the caller and writes the appropriate error response
// when no authenticated user is present. Callers bail out when the returned
// resolution is nil.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*identity.Resolution, error) {
	resolution, err := s.resolver.Resolve(r)
	switch {
	case errors.Is(err, identity.ErrMalformedAuthHeader):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed authorization header"})
		return nil, err
	case errors.Is(err, identity.ErrAuthExpired):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
		return nil, err
	case err != nil:
		log.Error().Err(err).Msg("identity resolution failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve session"})
		return nil, err
	case resolution == nil:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return nil, nil
	}
	return resolution, nil
}
