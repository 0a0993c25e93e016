package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbital-cli/orbital/sessions"
)

func TestInMemoryRepo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	newSession := func(id, token string, expiresAt time.Time) *sessions.ServerSession {
		return &sessions.ServerSession{
			ID:        id,
			Token:     token,
			UserID:    "user-1",
			CreatedAt: now,
			ExpiresAt: expiresAt,
		}
	}

	t.Run("create and fetch by token", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Create(newSession("s1", "tok-1", now.Add(time.Hour))))

		session, err := repo.GetByToken("tok-1")
		require.NoError(t, err)
		require.Equal(t, "s1", session.ID)

		_, err = repo.GetByToken("nope")
		require.ErrorIs(t, err, sessions.ErrNotFound)
	})

	t.Run("stored sessions are isolated from the caller", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		original := newSession("s1", "tok-1", now.Add(time.Hour))
		require.NoError(t, repo.Create(original))

		original.UserID = "tampered"
		session, err := repo.GetByToken("tok-1")
		require.NoError(t, err)
		require.Equal(t, "user-1", session.UserID)
	})

	t.Run("delete removes the token index", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Create(newSession("s1", "tok-1", now.Add(time.Hour))))

		require.NoError(t, repo.Delete("s1"))
		_, err := repo.GetByToken("tok-1")
		require.ErrorIs(t, err, sessions.ErrNotFound)

		// Deleting again is a no-op
		require.NoError(t, repo.Delete("s1"))
	})

	t.Run("delete expired sweeps only stale sessions", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.NoError(t, repo.Create(newSession("stale", "tok-stale", now.Add(-time.Minute))))
		require.NoError(t, repo.Create(newSession("live", "tok-live", now.Add(time.Hour))))

		require.NoError(t, repo.DeleteExpired(now))

		_, err := repo.GetByToken("tok-stale")
		require.ErrorIs(t, err, sessions.ErrNotFound)
		_, err = repo.GetByToken("tok-live")
		require.NoError(t, err)
	})

	t.Run("incomplete sessions rejected", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo()
		require.Error(t, repo.Create(nil))
		require.Error(t, repo.Create(&sessions.ServerSession{ID: "s1"}))
		require.Error(t, repo.Create(&sessions.ServerSession{Token: "tok-1"}))
	})
}
