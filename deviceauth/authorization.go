package deviceauth

import "time"

// Status enumerates the device authorization lifecycle. A record leaves the
// store when the grant completes (token issued) or its code turns out
// expired during an exchange; denied records linger until then so the
// polling client receives its access_denied signal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Authorization tracks one pending device grant on the provider side.
type Authorization struct {
	DeviceCode string // Opaque code the client polls with; primary key
	UserCode   string // Canonical (normalized) human-entered code
	ClientID   string
	Scope      string
	Status     Status
	UserID     string // Approver; set when the status leaves pending

	CreatedAt    time.Time
	ExpiresAt    time.Time
	Interval     time.Duration // Minimum spacing between polls
	LastPolledAt time.Time     // Zero until the first poll
	DecidedAt    *time.Time    // When the user approved or denied
}

// Expired reports whether the codes are past their lifetime at now.
func (a *Authorization) Expired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}
