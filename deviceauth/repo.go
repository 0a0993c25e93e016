package deviceauth

import "errors"

var ErrNotFound = errors.New("device authorization not found")

// Repo stores pending device authorizations. Keys are the device code
// (client-facing) and the canonical user code (approval-facing).
type Repo interface {
	Upsert(authorization *Authorization) error
	GetByDeviceCode(deviceCode string) (*Authorization, error)
	GetByUserCode(userCode string) (*Authorization, error)
	Delete(deviceCode string) error
}
