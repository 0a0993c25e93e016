package deviceflow

import (
	"context"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

// Endpoints holds the two provider URLs the device grant needs.
type Endpoints struct {
	DeviceAuthorizationURL string
	TokenURL               string
}

// DiscoverEndpoints resolves the device-authorization and token endpoints
// from the provider's OIDC discovery document. httpClient may be nil, in
// which case http.DefaultClient is used.
func DiscoverEndpoints(ctx context.Context, issuer string, httpClient *http.Client) (*Endpoints, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[DiscoverEndpoints] provider discovery")
	}

	var claims struct {
		DeviceAuthorizationEndpoint string `json:"device_authorization_endpoint"`
	}
	if err := provider.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "[DiscoverEndpoints] discovery claims")
	}
	if claims.DeviceAuthorizationEndpoint == "" {
		return nil, errors.New("[DiscoverEndpoints] device authorization endpoint not advertised")
	}
	tokenURL := provider.Endpoint().TokenURL
	if tokenURL == "" {
		return nil, errors.New("[DiscoverEndpoints] token endpoint not advertised")
	}

	return &Endpoints{
		DeviceAuthorizationURL: claims.DeviceAuthorizationEndpoint,
		TokenURL:               tokenURL,
	}, nil
}
