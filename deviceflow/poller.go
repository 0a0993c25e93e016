package deviceflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orbital-cli/orbital/internal/utils"
	oauth2wire "github.com/orbital-cli/orbital/oauth2"
	"golang.org/x/oauth2"
)

const defaultMaxTransportRetries = 3

// Result is the terminal payload of a successful poll. Token.Expiry is zero
// when the provider omitted expires_in; the credential store persists that as
// a null expiry.
type Result struct {
	Token *oauth2.Token
	Scope string
}

// Poller drives the RFC 8628 token polling loop for one device authorization
// session. The session's own expiry is the single source of truth for giving
// up: it is enforced client side, before every sleep and every attempt, and
// takes precedence over any server-signalled outcome.
type Poller struct {
	endpoint   string
	httpClient *http.Client
	clock      Clock
	maxRetries int
}

type PollerOption func(*Poller)

func WithPollerHTTPClient(client *http.Client) PollerOption {
	return func(p *Poller) {
		p.httpClient = client
	}
}

// WithClock replaces the wall clock (primarily for testing)
func WithClock(clock Clock) PollerOption {
	return func(p *Poller) {
		p.clock = clock
	}
}

// WithMaxTransportRetries bounds how many consecutive transport failures are
// tolerated before the poll fails with a NetworkError. The counter resets
// whenever the server answers at all.
func WithMaxTransportRetries(n int) PollerOption {
	return func(p *Poller) {
		p.maxRetries = n
	}
}

func NewPoller(endpoint string, options ...PollerOption) *Poller {
	p := &Poller{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		clock:      systemClock{},
		maxRetries: defaultMaxTransportRetries,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// tokenPayload mirrors the token endpoint's response body, success and error
// shapes combined.
type tokenPayload struct {
	AccessToken      *string `json:"access_token"`
	TokenType        string  `json:"token_type"`
	ExpiresIn        *int    `json:"expires_in"`
	RefreshToken     *string `json:"refresh_token"`
	Scope            string  `json:"scope"`
	Error            string  `json:"error"`
	ErrorDescription string  `json:"error_description"`
}

// Poll blocks until the session reaches a terminal state and returns the
// credential material on success. Terminal failures are ErrAccessDenied,
// ErrExpired, *NetworkError or *ProtocolError; a cancelled context surfaces
// as ctx.Err(). No partial result is ever produced: persisting the credential
// is the caller's job, and only on success.
func (p *Poller) Poll(ctx context.Context, session *Session, clientID string) (*Result, error) {
	m := &machine{
		interval:   session.Interval,
		maxRetries: p.maxRetries,
	}
	wait := session.Interval

	for {
		now := p.clock.Now()
		if !now.Before(session.ExpiresAt) {
			return nil, ErrExpired
		}

		// Never sleep past the session's own deadline; the expiry check at
		// the top of the next iteration then fires on time.
		if remaining := session.ExpiresAt.Sub(now); wait > remaining {
			wait = remaining
		}
		if err := p.clock.Sleep(ctx, wait); err != nil {
			return nil, err
		}
		if !p.clock.Now().Before(session.ExpiresAt) {
			return nil, ErrExpired
		}

		ev := p.attempt(ctx, session.DeviceCode, clientID)
		st := m.react(ev)
		session.Interval = m.interval

		switch st.state {
		case StateSucceeded:
			return p.result(ev.token), nil
		case StatePolling:
			wait = st.interval
		default:
			return nil, st.err
		}
	}
}

func (p *Poller) attempt(ctx context.Context, deviceCode, clientID string) pollEvent {
	values := url.Values{}
	values.Set("grant_type", string(oauth2wire.DeviceCodeGrant))
	values.Set("device_code", deviceCode)
	values.Set("client_id", clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return pollEvent{transportErr: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return pollEvent{transportErr: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return pollEvent{decodeErr: err}
	}
	if payload.Error != "" {
		return pollEvent{errorCode: payload.Error}
	}
	return pollEvent{token: &payload}
}

func (p *Poller) result(payload *tokenPayload) *Result {
	tok := &oauth2.Token{
		AccessToken:  utils.Value(payload.AccessToken),
		RefreshToken: utils.Value(payload.RefreshToken),
		TokenType:    payload.TokenType,
	}
	// Absolute expiry is fixed the moment the exchange succeeds.
	if payload.ExpiresIn != nil {
		tok.Expiry = p.clock.Now().Add(time.Duration(*payload.ExpiresIn) * time.Second)
	}
	return &Result{Token: tok, Scope: payload.Scope}
}
