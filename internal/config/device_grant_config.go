package config

import "time"

type DeviceGrantConfig interface {
	GetDeviceCodeTTL() time.Duration
	GetDevicePollInterval() time.Duration
	GetCodeGenerationLength() int
	GetSessionTTL() time.Duration
	GetAccessTokenExpiry() time.Duration
}

type DeviceGrant struct{}

var _ DeviceGrantConfig = DeviceGrant{}

// GetDeviceCodeTTL is the lifetime of an issued device/user code pair.
func (DeviceGrant) GetDeviceCodeTTL() time.Duration {
	return 10 * time.Minute
}

// GetDevicePollInterval is the minimum spacing between token polls that the
// server advertises and enforces (faster polls get slow_down).
func (DeviceGrant) GetDevicePollInterval() time.Duration {
	return 5 * time.Second
}

func (DeviceGrant) GetCodeGenerationLength() int {
	return 32 // 32 bytes = 256 bits
}

// GetSessionTTL is the lifetime of the server session created when a device
// grant completes.
func (DeviceGrant) GetSessionTTL() time.Duration {
	return 7 * 24 * time.Hour
}

func (DeviceGrant) GetAccessTokenExpiry() time.Duration {
	return 1 * time.Hour
}
