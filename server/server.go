package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/clients"
	"github.com/orbital-cli/orbital/deviceauth"
	"github.com/orbital-cli/orbital/identity"
	"github.com/orbital-cli/orbital/internal/config"
	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/token"
	"github.com/orbital-cli/orbital/users"
)

// Repos bundles the storage backends the server runs on.
type Repos struct {
	Sessions   sessions.Repo
	Users      users.UserRepo
	Clients    clients.Repo
	DeviceAuth deviceauth.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	repos  Repos

	deviceAuth *deviceauth.Service
	gate       *deviceauth.Gate
	resolver   *identity.Resolver
}

func New(config config.Config, repos Repos) (*Server, error) {
	signer := token.NewHMACSigner(config.GetTokenSigningSecret())
	tokens := token.New(signer,
		token.WithIssuer(config.GetBaseURL()),
		token.WithAccessTokenExpiry(config.GetAccessTokenExpiry()),
	)

	deviceAuth, err := deviceauth.NewService(
		repos.DeviceAuth,
		repos.Clients,
		repos.Users,
		repos.Sessions,
		tokens,
		config.GetBaseURL()+RouteDeviceVerification,
		deviceauth.WithDeviceCodeTTL(config.GetDeviceCodeTTL()),
		deviceauth.WithPollInterval(config.GetDevicePollInterval()),
		deviceauth.WithDeviceCodeLength(config.GetCodeGenerationLength()),
		deviceauth.WithSessionTTL(config.GetSessionTTL()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create device authorization service: %w", err)
	}

	gate, err := deviceauth.NewGate(deviceAuth)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create approval gate: %w", err)
	}

	cookieAuth := NewCookieAuthenticator(repos.Sessions, repos.Users)
	resolver, err := identity.NewResolver(cookieAuth, repos.Sessions, repos.Users)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create identity resolver: %w", err)
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     config,
		repos:      repos,
		deviceAuth: deviceAuth,
		gate:       gate,
		resolver:   resolver,
	}
	s.env = config.GetEnv()

	// Bootstrap: ensure a development user and the CLI client exist
	if err := s.InitialiseSystem(config); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Str("method", method).Str("path", path).Msg("route")
}
