// Package apiclient is the CLI's typed client for the Orbital API.
package apiclient

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/orbital-cli/orbital/credentials"
)

var (
	// ErrNoSession means the server does not recognise any session for the
	// presented credential (or none was presented).
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired means the server recognised the session but its
	// lifetime has passed.
	ErrSessionExpired = errors.New("session expired")

	// ErrMalformedCredential means the server rejected the Authorization
	// header before even looking the session up.
	ErrMalformedCredential = errors.New("malformed credential")
)

// User is the caller identity as reported by the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the server-side session backing the caller's credential.
type Session struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MeResponse is the payload of GET /api/me.
type MeResponse struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}

type apiError struct {
	Error string `json:"error"`
}

// Client calls the Orbital API with a stored credential.
type Client struct {
	rest *resty.Client
}

// ClientOption configures optional Client parameters
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used in tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.rest = resty.NewWithClient(httpClient)
	}
}

// New creates a client for the API at baseURL, authenticating with cred.
// cred may be nil for unauthenticated calls.
func New(baseURL string, cred *credentials.Credential, options ...ClientOption) *Client {
	c := &Client{rest: resty.New()}
	for _, option := range options {
		option(c)
	}
	c.rest.SetBaseURL(baseURL)
	c.rest.SetTimeout(30 * time.Second)
	if cred != nil {
		c.rest.SetHeader("Authorization", cred.AuthorizationHeader())
	}
	return c
}

// Me resolves the caller's identity on the server. The sentinel errors
// distinguish "not logged in" (ErrNoSession), "logged in but stale"
// (ErrSessionExpired) and a credential the server could not parse
// (ErrMalformedCredential).
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var result MeResponse
	var respErr apiError

	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&respErr).
		Get("/api/me")
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Me] request failed")
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &result, nil
	case http.StatusUnauthorized:
		// The server answers 401 null for "no session" and 401 with an
		// error body for an expired one.
		if respErr.Error != "" {
			return nil, ErrSessionExpired
		}
		return nil, ErrNoSession
	case http.StatusBadRequest:
		return nil, ErrMalformedCredential
	default:
		return nil, errors.Errorf("[Client.Me] unexpected status %d", resp.StatusCode())
	}
}
