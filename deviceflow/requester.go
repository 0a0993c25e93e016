package deviceflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orbital-cli/orbital/internal/utils"
	"github.com/pkg/errors"
)

// Session is the client-side view of one device authorization request. It is
// consumed by the poller and discarded once the flow reaches a terminal
// state. Only Interval ever changes after creation, and only upward, when the
// server signals slow_down.
type Session struct {
	DeviceCode              string
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
	ExpiresAt               time.Time
	Interval                time.Duration
}

// VerificationTarget returns the URL the user should open: the complete URI
// with the embedded code when the server supplied one, otherwise the plain
// verification page.
func (s *Session) VerificationTarget() string {
	if s.VerificationURIComplete != "" {
		return s.VerificationURIComplete
	}
	return s.VerificationURI
}

// Requester issues the initial device-authorization request. It performs
// exactly one network call per invocation; restarting after a failure is the
// caller's decision.
type Requester struct {
	endpoint   string
	httpClient *http.Client
	nowTime    func() time.Time
}

type RequesterOption func(*Requester)

func WithRequesterHTTPClient(client *http.Client) RequesterOption {
	return func(r *Requester) {
		r.httpClient = client
	}
}

// WithRequesterNowTime sets the now time function (primarily for testing)
func WithRequesterNowTime(nowFunc func() time.Time) RequesterOption {
	return func(r *Requester) {
		r.nowTime = nowFunc
	}
}

func NewRequester(endpoint string, options ...RequesterOption) *Requester {
	r := &Requester{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// deviceCodePayload mirrors the RFC 8628 section 3.2 response. Numeric fields
// are pointers so a missing field can be told apart from a zero.
type deviceCodePayload struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               *int   `json:"expires_in"`
	Interval                *int   `json:"interval"`
}

// RequestDeviceCode asks the provider to start a device authorization.
// Transport failures surface as *NetworkError, responses missing any
// required field as *ProtocolError; both are terminal for this call.
func (r *Requester) RequestDeviceCode(ctx context.Context, clientID, scope string) (*Session, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("[RequestDeviceCode] clientID is required")
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	if scope != "" {
		values.Set("scope", scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "[RequestDeviceCode] build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return nil, &ProtocolError{Reason: "device authorization request rejected: " + resp.Status}
	}

	var payload deviceCodePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &ProtocolError{Reason: "undecodable device authorization response", Err: err}
	}
	if payload.DeviceCode == "" || payload.UserCode == "" || payload.ExpiresIn == nil || payload.Interval == nil {
		return nil, &ProtocolError{Reason: "device authorization response missing required fields"}
	}

	return &Session{
		DeviceCode:              payload.DeviceCode,
		UserCode:                payload.UserCode,
		VerificationURI:         payload.VerificationURI,
		VerificationURIComplete: payload.VerificationURIComplete,
		ExpiresAt:               r.nowTime().Add(time.Duration(utils.Value(payload.ExpiresIn)) * time.Second),
		Interval:                time.Duration(utils.Value(payload.Interval)) * time.Second,
	}, nil
}
