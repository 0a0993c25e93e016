package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a browser user with email and password and sets the
// first-party session cookie. The approval page needs a logged-in user
// before it can decide a device authorization.
func (s *Server) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to parse request body"})
			return
		}
		if req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
			return
		}

		user, err := s.repos.Users.GetByEmail(req.Email)
		if err != nil || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			// Same response for unknown email and wrong password
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
			return
		}
		if user.Blocked {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "account is blocked"})
			return
		}

		sessionToken, err := newSessionToken()
		if err != nil {
			log.Error().Err(err).Msg("failed to generate session token")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
			return
		}

		now := time.Now()
		session := &sessions.ServerSession{
			ID:        uuid.NewString(),
			Token:     sessionToken,
			UserID:    user.ID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.GetSessionTTL()),
		}
		if err := s.repos.Sessions.Create(session); err != nil {
			log.Error().Err(err).Msg("failed to store session")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    sessionToken,
			Path:     "/",
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, meResponse{
			User: meUser{
				ID:    user.ID,
				Name:  user.DisplayName(),
				Email: user.Email,
			},
			Session: meSession{
				ID:        session.ID,
				ExpiresAt: session.ExpiresAt,
			},
		})
	}
}

// Logout deletes the caller's session and clears the cookie. Succeeds even
// when no session is present.
func (s *Server) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			if session, err := s.repos.Sessions.GetByToken(cookie.Value); err == nil {
				if err := s.repos.Sessions.Delete(session.ID); err != nil {
					log.Error().Err(err).Msg("failed to delete session")
				}
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
