package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/users"
)

var (
	// ErrMalformedAuthHeader signals an Authorization header that is present
	// but not of the form "Bearer <token>". Distinct from an unknown token,
	// which resolves to no identity rather than an error.
	ErrMalformedAuthHeader = errors.New("malformed authorization header")

	// ErrAuthExpired signals a recognized session whose lifetime has passed.
	ErrAuthExpired = errors.New("session expired")
)

// CookieAuthenticator resolves a request from its session cookie. A nil
// resolution with a nil error means no usable cookie was presented.
type CookieAuthenticator interface {
	Authenticate(r *http.Request) (*Resolution, error)
}

// Resolver resolves requests cookie-first, then by Authorization header.
type Resolver struct {
	cookieAuth  CookieAuthenticator
	sessionRepo sessions.Repo
	userRepo    users.UserRepo
	nowTime     func() time.Time
}

// ResolverOption configures optional Resolver parameters
type ResolverOption func(*Resolver)

// WithNowTime allows the current time to be stubbed in tests.
func WithNowTime(nowTime func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.nowTime = nowTime
	}
}

// NewResolver creates a Resolver. cookieAuth may be nil, in which case only
// the Bearer path is available.
func NewResolver(cookieAuth CookieAuthenticator, sessionRepo sessions.Repo, userRepo users.UserRepo, options ...ResolverOption) (*Resolver, error) {
	if sessionRepo == nil {
		return nil, errors.New("[identity.NewResolver] sessionRepo cannot be nil")
	}
	if userRepo == nil {
		return nil, errors.New("[identity.NewResolver] userRepo cannot be nil")
	}
	resolver := &Resolver{
		cookieAuth:  cookieAuth,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		nowTime:     time.Now,
	}
	for _, option := range options {
		option(resolver)
	}
	return resolver, nil
}

// Resolve identifies the caller of r. The cookie path wins when it yields an
// identity; a failed cookie never blocks the Bearer path. A request carrying
// neither credential resolves to (nil, nil) so handlers can answer with an
// explicit "no session" rather than an error.
func (rv *Resolver) Resolve(r *http.Request) (*Resolution, error) {
	if rv.cookieAuth != nil {
		resolution, err := rv.cookieAuth.Authenticate(r)
		if err == nil && resolution != nil {
			return resolution, nil
		}
	}
	return rv.resolveBearer(r)
}

func (rv *Resolver) resolveBearer(r *http.Request) (*Resolution, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
		return nil, ErrMalformedAuthHeader
	}
	tokenString = strings.TrimSpace(tokenString)

	session, err := rv.sessionRepo.GetByToken(tokenString)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(rv.nowTime()) {
		return nil, ErrAuthExpired
	}

	user, err := rv.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Identity: Identity{
			UserID: user.ID,
			Name:   user.DisplayName(),
			Email:  user.Email,
		},
		Session: session,
	}, nil
}
