package deviceauth

import "errors"

var (
	// Control signals for a polling client, mapped onto the RFC 8628 token
	// endpoint error codes by the HTTP layer.
	ErrAuthorizationPending = errors.New("authorization pending")
	ErrSlowDown             = errors.New("polling faster than the advertised interval")

	// Terminal outcomes.
	ErrAccessDenied = errors.New("authorization denied")
	ErrExpiredToken = errors.New("device code expired")

	// Caller mistakes.
	ErrInvalidGrant    = errors.New("unknown device code")
	ErrInvalidClient   = errors.New("unknown client")
	ErrInvalidUserCode = errors.New("unknown user code")

	// ErrInvalidState rejects approve/deny intents against an authorization
	// that is no longer pending (already decided, or expired).
	ErrInvalidState = errors.New("device authorization is not pending")
)
