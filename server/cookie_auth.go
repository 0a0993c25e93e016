package server

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/orbital-cli/orbital/identity"
	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/users"
)

// SessionCookieName is the first-party session cookie set on browser login.
const SessionCookieName = "orbital_session"

// CookieAuthenticator resolves requests from the session cookie. It is the
// cookie half of the identity resolver's dual path; Bearer resolution lives
// in the identity package.
type CookieAuthenticator struct {
	sessionRepo sessions.Repo
	userRepo    users.UserRepo
	nowTime     func() time.Time
}

func NewCookieAuthenticator(sessionRepo sessions.Repo, userRepo users.UserRepo) *CookieAuthenticator {
	return &CookieAuthenticator{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		nowTime:     time.Now,
	}
}

// Authenticate resolves r from its session cookie. A missing, unknown or
// expired cookie resolves to (nil, nil) so the caller can fall through to
// the Authorization header.
func (c *CookieAuthenticator) Authenticate(r *http.Request) (*identity.Resolution, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	session, err := c.sessionRepo.GetByToken(cookie.Value)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "[CookieAuthenticator.Authenticate] sessionRepo.GetByToken")
	}
	if session.Expired(c.nowTime()) {
		return nil, nil
	}

	user, err := c.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "[CookieAuthenticator.Authenticate] userRepo.GetByID")
	}

	return &identity.Resolution{
		Identity: identity.Identity{
			UserID: user.ID,
			Name:   user.DisplayName(),
			Email:  user.Email,
		},
		Session: session,
	}, nil
}
