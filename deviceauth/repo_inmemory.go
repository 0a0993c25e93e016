package deviceauth

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface.
type InMemoryRepo struct {
	mu          sync.RWMutex
	byDevice    map[string]*Authorization
	deviceCodes map[string]string // user code -> device code
}

// NewInMemoryRepo creates a new in-memory device authorization repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		byDevice:    make(map[string]*Authorization),
		deviceCodes: make(map[string]string),
	}
}

func (r *InMemoryRepo) Upsert(authorization *Authorization) error {
	if authorization == nil {
		return errors.New("authorization cannot be nil")
	}
	if authorization.DeviceCode == "" || authorization.UserCode == "" {
		return errors.New("device code and user code are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	copied := *authorization
	r.byDevice[authorization.DeviceCode] = &copied
	r.deviceCodes[authorization.UserCode] = authorization.DeviceCode
	return nil
}

func (r *InMemoryRepo) GetByDeviceCode(deviceCode string) (*Authorization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authorization, ok := r.byDevice[deviceCode]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *authorization
	return &copied, nil
}

func (r *InMemoryRepo) GetByUserCode(userCode string) (*Authorization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deviceCode, ok := r.deviceCodes[userCode]
	if !ok {
		return nil, ErrNotFound
	}
	authorization, ok := r.byDevice[deviceCode]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *authorization
	return &copied, nil
}

func (r *InMemoryRepo) Delete(deviceCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	authorization, ok := r.byDevice[deviceCode]
	if !ok {
		return nil // Already gone
	}
	delete(r.deviceCodes, authorization.UserCode)
	delete(r.byDevice, deviceCode)
	return nil
}
