package sessions

import (
	"errors"
	"sync"
	"time"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Suitable for development and tests; production deployments back
// this with the relational session store.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*ServerSession // keyed by session ID
	tokens   map[string]string         // token -> session ID
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*ServerSession),
		tokens:   make(map[string]string),
	}
}

func (r *InMemoryRepo) Create(session *ServerSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" || session.Token == "" {
		return errors.New("session ID and token are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *session
	r.sessions[session.ID] = &copied
	r.tokens[session.Token] = session.ID
	return nil
}

func (r *InMemoryRepo) GetByToken(token string) (*ServerSession, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *session
	return &copied, nil
}

func (r *InMemoryRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil // Already gone
	}
	delete(r.tokens, session.Token)
	delete(r.sessions, sessionID)
	return nil
}

func (r *InMemoryRepo) DeleteExpired(before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if session.ExpiresAt.Before(before) {
			delete(r.tokens, session.Token)
			delete(r.sessions, id)
		}
	}
	return nil
}
