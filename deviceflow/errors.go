package deviceflow

import "errors"

var (
	// ErrAccessDenied means the user rejected the authorization request on the
	// approval page. Terminal: a fresh device code is required.
	ErrAccessDenied = errors.New("authorization denied by user")

	// ErrExpired means the device code's lifetime ran out before the user
	// completed (or the server acknowledged) the authorization.
	ErrExpired = errors.New("device authorization expired")
)

// NetworkError wraps a transport failure talking to the provider. The
// requester fails immediately on one; the poller retries a bounded number of
// consecutive occurrences before giving up.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ProtocolError means the provider answered with a response this client
// cannot make sense of: missing required fields, an unknown error code, or an
// undecodable payload. Terminal and never retried; the whole flow has to
// restart from a new device-code request.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return "protocol error: " + e.Reason + ": " + e.Err.Error()
	}
	return "protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
