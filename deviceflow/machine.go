package deviceflow

import (
	"time"

	"github.com/orbital-cli/orbital/internal/utils"
	oauth2wire "github.com/orbital-cli/orbital/oauth2"
)

// State is the polling state machine's position. StatePolling is the only
// non-terminal state.
type State int

const (
	StatePolling State = iota
	StateSucceeded
	StateDenied
	StateExpired
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateSucceeded:
		return "succeeded"
	case StateDenied:
		return "denied"
	case StateExpired:
		return "expired"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// pollEvent is what a single token-endpoint attempt produced: exactly one of
// a success payload, an OAuth error code, a transport failure, or an
// undecodable response.
type pollEvent struct {
	token        *tokenPayload
	errorCode    string
	transportErr error
	decodeErr    error
}

// step is the machine's reaction to an event: where the loop is now, how long
// to wait before the next attempt while still polling, and the terminal error
// when it is not.
type step struct {
	state    State
	interval time.Duration
	err      error
}

// machine holds the clock-independent polling state. The loop feeds it one
// event per attempt; it never sleeps or reads time itself, which is what
// makes the transition logic testable with synthetic events.
type machine struct {
	interval         time.Duration
	transportRetries int
	maxRetries       int
}

const slowDownIncrement = 5 * time.Second

func (m *machine) react(ev pollEvent) step {
	switch {
	case ev.transportErr != nil:
		m.transportRetries++
		if m.transportRetries > m.maxRetries {
			return step{state: StateFailed, err: &NetworkError{Err: ev.transportErr}}
		}
		return step{state: StatePolling, interval: m.interval}

	case ev.decodeErr != nil:
		return step{state: StateFailed, err: &ProtocolError{Reason: "undecodable token response", Err: ev.decodeErr}}

	case ev.token != nil && utils.Value(ev.token.AccessToken) != "":
		m.transportRetries = 0
		return step{state: StateSucceeded}
	}

	// Any server response, even an error, proves the transport works again.
	m.transportRetries = 0

	switch ev.errorCode {
	case oauth2wire.ErrorAuthorizationPending:
		return step{state: StatePolling, interval: m.interval}
	case oauth2wire.ErrorSlowDown:
		// The ratchet is permanent for this session; the interval never
		// decreases again.
		m.interval += slowDownIncrement
		return step{state: StatePolling, interval: m.interval}
	case oauth2wire.ErrorAccessDenied:
		return step{state: StateDenied, err: ErrAccessDenied}
	case oauth2wire.ErrorExpiredToken:
		return step{state: StateExpired, err: ErrExpired}
	case "":
		return step{state: StateFailed, err: &ProtocolError{Reason: "token response carries neither access_token nor error"}}
	default:
		return step{state: StateFailed, err: &ProtocolError{Reason: "unexpected token error code " + ev.errorCode}}
	}
}
