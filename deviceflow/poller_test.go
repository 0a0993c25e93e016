package deviceflow_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbital-cli/orbital/deviceflow"
)

// fakeClock advances instantly on every sleep and records the requested
// durations, so a whole polling session runs in microseconds.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// scriptedTokenEndpoint answers each poll with the next canned body.
func scriptedTokenEndpoint(t *testing.T, bodies []string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.PostFormValue("grant_type"))
		require.NotEmpty(t, r.PostFormValue("device_code"))
		require.NotEmpty(t, r.PostFormValue("client_id"))

		require.Less(t, calls, len(bodies), "more polls than scripted responses")
		body := bodies[calls]
		calls++

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestSession(base time.Time) *deviceflow.Session {
	return &deviceflow.Session{
		DeviceCode: "device-123",
		UserCode:   "ABCD-1234",
		ExpiresAt:  base.Add(10 * time.Minute),
		Interval:   5 * time.Second,
	}
}

func TestPoller_Poll(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pending := `{"error":"authorization_pending"}`

	t.Run("succeeds after pending polls", func(t *testing.T) {
		srv, calls := scriptedTokenEndpoint(t, []string{
			pending,
			pending,
			`{"access_token":"at-1","token_type":"Bearer","expires_in":3600,"refresh_token":"rt-1","scope":"openid profile"}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		result, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		require.NoError(t, err)
		require.Equal(t, 3, *calls)
		require.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, clock.sleeps)

		require.Equal(t, "at-1", result.Token.AccessToken)
		require.Equal(t, "rt-1", result.Token.RefreshToken)
		require.Equal(t, "Bearer", result.Token.TokenType)
		require.Equal(t, "openid profile", result.Scope)
		// Expiry anchored at the moment of success: base + three sleeps + 1h
		require.Equal(t, base.Add(15*time.Second).Add(time.Hour), result.Token.Expiry)
	})

	t.Run("missing expires_in leaves a zero expiry", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{
			`{"access_token":"at-1","token_type":"Bearer"}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		result, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		require.NoError(t, err)
		require.True(t, result.Token.Expiry.IsZero())
	})

	t.Run("slow_down ratchets the interval permanently", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{
			`{"error":"slow_down"}`,
			`{"error":"slow_down"}`,
			pending,
			`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))
		session := newTestSession(base)

		_, err := poller.Poll(context.Background(), session, "cli-client")
		require.NoError(t, err)

		// 5s before the first poll, then 10s and 15s after each slow_down;
		// authorization_pending never shrinks the interval back.
		require.Equal(t, []time.Duration{
			5 * time.Second,
			10 * time.Second,
			15 * time.Second,
			15 * time.Second,
		}, clock.sleeps)
		require.Equal(t, 15*time.Second, session.Interval)
	})

	t.Run("access_denied is terminal", func(t *testing.T) {
		srv, calls := scriptedTokenEndpoint(t, []string{
			pending,
			`{"error":"access_denied"}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		require.ErrorIs(t, err, deviceflow.ErrAccessDenied)
		require.Equal(t, 2, *calls)
	})

	t.Run("server-side expiry is terminal", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{
			`{"error":"expired_token"}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		require.ErrorIs(t, err, deviceflow.ErrExpired)
	})

	t.Run("client-side deadline fires without waiting for the server", func(t *testing.T) {
		srv, calls := scriptedTokenEndpoint(t, []string{pending})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		session := newTestSession(base)
		session.ExpiresAt = base.Add(7 * time.Second)

		_, err := poller.Poll(context.Background(), session, "cli-client")
		require.ErrorIs(t, err, deviceflow.ErrExpired)
		// One poll at t=5s, then the 5s wait is capped at the 2s remaining
		// and the deadline check fires before a second poll.
		require.Equal(t, 1, *calls)
		require.Equal(t, []time.Duration{5 * time.Second, 2 * time.Second}, clock.sleeps)
	})

	t.Run("unknown error code is a protocol error", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{
			`{"error":"bananas"}`,
		})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		var protocolErr *deviceflow.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("response with neither token nor error is a protocol error", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{`{}`})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		var protocolErr *deviceflow.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("undecodable body is a protocol error", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{`{not json`})
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		var protocolErr *deviceflow.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("cancelled context stops the poll", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, nil)
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL, deviceflow.WithClock(clock))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := poller.Poll(ctx, newTestSession(base), "cli-client")
		require.ErrorIs(t, err, context.Canceled)
	})
}

// flakyTransport fails the round trips whose zero-based index is listed in
// failures and forwards the rest.
type flakyTransport struct {
	mu       sync.Mutex
	failures map[int]bool
	next     http.RoundTripper
	calls    int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()
	if f.failures[i] {
		return nil, fmt.Errorf("connection reset (attempt %d)", i)
	}
	return f.next.RoundTrip(req)
}

func TestPoller_TransportFailures(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("gives up after consecutive transport failures", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, nil)
		transport := &flakyTransport{
			failures: map[int]bool{0: true, 1: true, 2: true},
			next:     http.DefaultTransport,
		}
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL,
			deviceflow.WithClock(clock),
			deviceflow.WithPollerHTTPClient(&http.Client{Transport: transport}),
			deviceflow.WithMaxTransportRetries(2),
		)

		_, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		var networkErr *deviceflow.NetworkError
		require.ErrorAs(t, err, &networkErr)
		require.Equal(t, 3, transport.calls)
	})

	t.Run("a server answer resets the retry budget", func(t *testing.T) {
		srv, _ := scriptedTokenEndpoint(t, []string{
			`{"error":"authorization_pending"}`,
			`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`,
		})
		transport := &flakyTransport{
			failures: map[int]bool{0: true, 2: true},
			next:     http.DefaultTransport,
		}
		clock := &fakeClock{now: base}
		poller := deviceflow.NewPoller(srv.URL,
			deviceflow.WithClock(clock),
			deviceflow.WithPollerHTTPClient(&http.Client{Transport: transport}),
			deviceflow.WithMaxTransportRetries(1),
		)

		result, err := poller.Poll(context.Background(), newTestSession(base), "cli-client")
		require.NoError(t, err)
		require.Equal(t, "at-1", result.Token.AccessToken)
		require.Equal(t, 4, transport.calls)
	})
}
