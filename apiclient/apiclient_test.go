package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbital-cli/orbital/apiclient"
	"github.com/orbital-cli/orbital/credentials"
)

func TestClient_Me(t *testing.T) {
	cred := &credentials.Credential{AccessToken: "tok-1", TokenType: "Bearer"}

	t.Run("resolves the identity", func(t *testing.T) {
		expiresAt := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/me", r.URL.Path)
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"user": {"id": "user-1", "name": "Ada Lovelace", "email": "ada@example.com"},
				"session": {"id": "session-1", "expiresAt": "2025-06-08T12:00:00Z"}
			}`))
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, cred)
		me, err := client.Me(context.Background())
		require.NoError(t, err)

		require.Equal(t, "user-1", me.User.ID)
		require.Equal(t, "Ada Lovelace", me.User.Name)
		require.Equal(t, "ada@example.com", me.User.Email)
		require.Equal(t, "session-1", me.Session.ID)
		require.True(t, expiresAt.Equal(me.Session.ExpiresAt))
	})

	t.Run("401 null means no session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("null"))
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, cred)
		_, err := client.Me(context.Background())
		require.ErrorIs(t, err, apiclient.ErrNoSession)
	})

	t.Run("401 with an error body means expired", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "session expired"}`))
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, cred)
		_, err := client.Me(context.Background())
		require.ErrorIs(t, err, apiclient.ErrSessionExpired)
	})

	t.Run("400 means the credential was malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "malformed authorization header"}`))
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, cred)
		_, err := client.Me(context.Background())
		require.ErrorIs(t, err, apiclient.ErrMalformedCredential)
	})

	t.Run("unexpected status surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, cred)
		_, err := client.Me(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "502")
	})

	t.Run("nil credential sends no authorization header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("null"))
		}))
		defer srv.Close()

		client := apiclient.New(srv.URL, nil)
		_, err := client.Me(context.Background())
		require.ErrorIs(t, err, apiclient.ErrNoSession)
	})
}
