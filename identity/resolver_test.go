package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbital-cli/orbital/identity"
	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/users"
	fakeuserrepo "github.com/orbital-cli/orbital/users/repofake"
)

type staticCookieAuth struct {
	resolution *identity.Resolution
	err        error
}

func (a *staticCookieAuth) Authenticate(_ *http.Request) (*identity.Resolution, error) {
	return a.resolution, a.err
}

type resolverFixture struct {
	resolver    *identity.Resolver
	sessionRepo *sessions.InMemoryRepo
	now         time.Time
}

func newResolverFixture(t *testing.T, cookieAuth identity.CookieAuthenticator) *resolverFixture {
	t.Helper()

	f := &resolverFixture{
		sessionRepo: sessions.NewInMemoryRepo(),
		now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	userRepo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, userRepo.Upsert(&users.User{
		ID:        "user-1",
		Email:     "ada@example.com",
		Username:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}))

	resolver, err := identity.NewResolver(cookieAuth, f.sessionRepo, userRepo,
		identity.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.resolver = resolver
	return f
}

func (f *resolverFixture) addSession(t *testing.T, token string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, f.sessionRepo.Create(&sessions.ServerSession{
		ID:        "session-" + token,
		Token:     token,
		UserID:    "user-1",
		CreatedAt: f.now,
		ExpiresAt: expiresAt,
	}))
}

func bearerRequest(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestResolver_Bearer(t *testing.T) {
	t.Run("valid token resolves to the user", func(t *testing.T) {
		f := newResolverFixture(t, nil)
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		resolution, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.NoError(t, err)
		require.NotNil(t, resolution)
		require.Equal(t, "user-1", resolution.Identity.UserID)
		require.Equal(t, "Ada Lovelace", resolution.Identity.Name)
		require.Equal(t, "ada@example.com", resolution.Identity.Email)
		require.Equal(t, "session-tok-1", resolution.Session.ID)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		f := newResolverFixture(t, nil)
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		resolution, err := f.resolver.Resolve(bearerRequest("bearer tok-1"))
		require.NoError(t, err)
		require.NotNil(t, resolution)
	})

	t.Run("no credential resolves to nothing", func(t *testing.T) {
		f := newResolverFixture(t, nil)

		resolution, err := f.resolver.Resolve(bearerRequest(""))
		require.NoError(t, err)
		require.Nil(t, resolution)
	})

	t.Run("unknown token resolves to nothing", func(t *testing.T) {
		f := newResolverFixture(t, nil)

		resolution, err := f.resolver.Resolve(bearerRequest("Bearer nope"))
		require.NoError(t, err)
		require.Nil(t, resolution)
	})

	t.Run("malformed headers are a distinct error", func(t *testing.T) {
		f := newResolverFixture(t, nil)
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		for _, header := range []string{
			"Basic dXNlcjpwYXNz",
			"Bearer",
			"Bearer   ",
			"tok-1",
		} {
			_, err := f.resolver.Resolve(bearerRequest(header))
			require.ErrorIs(t, err, identity.ErrMalformedAuthHeader, "header %q", header)
		}
	})

	t.Run("expired session is a distinct error", func(t *testing.T) {
		f := newResolverFixture(t, nil)
		f.addSession(t, "tok-1", f.now.Add(-time.Minute))

		_, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.ErrorIs(t, err, identity.ErrAuthExpired)
	})

	t.Run("expiry boundary counts as expired", func(t *testing.T) {
		f := newResolverFixture(t, nil)
		f.addSession(t, "tok-1", f.now)

		_, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.ErrorIs(t, err, identity.ErrAuthExpired)
	})
}

func TestResolver_CookieFirst(t *testing.T) {
	cookieResolution := &identity.Resolution{
		Identity: identity.Identity{UserID: "cookie-user"},
		Session:  &sessions.ServerSession{ID: "cookie-session"},
	}

	t.Run("cookie wins over the header", func(t *testing.T) {
		f := newResolverFixture(t, &staticCookieAuth{resolution: cookieResolution})
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		resolution, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.NoError(t, err)
		require.Equal(t, "cookie-user", resolution.Identity.UserID)
	})

	t.Run("no cookie falls through to the header", func(t *testing.T) {
		f := newResolverFixture(t, &staticCookieAuth{})
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		resolution, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.NoError(t, err)
		require.Equal(t, "user-1", resolution.Identity.UserID)
	})

	t.Run("cookie failure never blocks the header", func(t *testing.T) {
		f := newResolverFixture(t, &staticCookieAuth{err: identity.ErrAuthExpired})
		f.addSession(t, "tok-1", f.now.Add(time.Hour))

		resolution, err := f.resolver.Resolve(bearerRequest("Bearer tok-1"))
		require.NoError(t, err)
		require.Equal(t, "user-1", resolution.Identity.UserID)
	})
}
