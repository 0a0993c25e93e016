package fakeclientrepo

import (
	"errors"
	"sync"

	"github.com/orbital-cli/orbital/clients"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() clients.Repo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (cr *FakeClientRepo) Upsert(clientData *clients.Client) error {
	if clientData == nil || clientData.ID == "" {
		return errors.New("client ID is required")
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.clients[clientData.ID] = clientData
	return nil
}

func (cr *FakeClientRepo) Delete(clientID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	delete(cr.clients, clientID)
	return nil
}

func (cr *FakeClientRepo) Get(clientID string) (*clients.Client, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	client, ok := cr.clients[clientID]
	if !ok {
		return nil, errors.New("client not found")
	}
	return client, nil
}
