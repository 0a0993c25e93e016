package deviceflow_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbital-cli/orbital/deviceflow"
)

func TestRequester_RequestDeviceCode(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("successful request", func(t *testing.T) {
		var gotClientID, gotScope string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotClientID = r.PostFormValue("client_id")
			gotScope = r.PostFormValue("scope")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"device_code":               "device-123",
				"user_code":                 "ABCD-1234",
				"verification_uri":          "http://auth.example/device",
				"verification_uri_complete": "http://auth.example/device?user_code=ABCD-1234",
				"expires_in":                600,
				"interval":                  5,
			})
		}))
		defer srv.Close()

		requester := deviceflow.NewRequester(srv.URL,
			deviceflow.WithRequesterNowTime(func() time.Time { return now }))
		session, err := requester.RequestDeviceCode(context.Background(), "cli-client", "openid profile")
		require.NoError(t, err)

		require.Equal(t, "cli-client", gotClientID)
		require.Equal(t, "openid profile", gotScope)
		require.Equal(t, "device-123", session.DeviceCode)
		require.Equal(t, "ABCD-1234", session.UserCode)
		require.Equal(t, "http://auth.example/device", session.VerificationURI)
		require.Equal(t, now.Add(10*time.Minute), session.ExpiresAt)
		require.Equal(t, 5*time.Second, session.Interval)
		require.Equal(t, "http://auth.example/device?user_code=ABCD-1234", session.VerificationTarget())
	})

	t.Run("verification target falls back to plain URI", func(t *testing.T) {
		session := &deviceflow.Session{VerificationURI: "http://auth.example/device"}
		require.Equal(t, "http://auth.example/device", session.VerificationTarget())
	})

	t.Run("empty client id rejected without a request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}))
		defer srv.Close()

		requester := deviceflow.NewRequester(srv.URL)
		_, err := requester.RequestDeviceCode(context.Background(), "  ", "")
		require.Error(t, err)
	})

	t.Run("error status is a protocol error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		requester := deviceflow.NewRequester(srv.URL)
		_, err := requester.RequestDeviceCode(context.Background(), "cli-client", "")

		var protocolErr *deviceflow.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("missing required fields is a protocol error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// interval omitted
			_ = json.NewEncoder(w).Encode(map[string]any{
				"device_code": "device-123",
				"user_code":   "ABCD-1234",
				"expires_in":  600,
			})
		}))
		defer srv.Close()

		requester := deviceflow.NewRequester(srv.URL)
		_, err := requester.RequestDeviceCode(context.Background(), "cli-client", "")

		var protocolErr *deviceflow.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // Shut down before the request

		requester := deviceflow.NewRequester(srv.URL)
		_, err := requester.RequestDeviceCode(context.Background(), "cli-client", "")

		var networkErr *deviceflow.NetworkError
		require.ErrorAs(t, err, &networkErr)
	})
}
