package server

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/orbital-cli/orbital/clients"
	"github.com/orbital-cli/orbital/internal/config"
	"github.com/orbital-cli/orbital/users"
)

// CLIClientID is the public client the command line tool authenticates as.
const CLIClientID = "orbital-cli"

// InitialiseSystem seeds the storage backends with the records the server
// cannot run without: the CLI client, and in development a user to log in
// and approve device authorizations with.
func (s *Server) InitialiseSystem(cfg config.Config) error {
	if _, err := s.repos.Clients.Get(CLIClientID); err != nil {
		client := &clients.Client{
			ID:          CLIClientID,
			Type:        clients.ClientTypePublic,
			Description: "Orbital command line client",
			Scopes:      []string{"openid", "profile", "email"},
		}
		if err := s.repos.Clients.Upsert(client); err != nil {
			return fmt.Errorf("[InitialiseSystem] failed to create CLI client: %w", err)
		}
	}

	if cfg.GetEnv() != "DEV" {
		return nil
	}
	return s.seedDevUser()
}

func (s *Server) seedDevUser() error {
	email := config.GetEnv("DEV_USER_EMAIL", "dev@orbital.local")
	if _, err := s.repos.Users.GetByEmail(email); err == nil {
		return nil // Already seeded
	}

	hash, err := users.HashPassword(config.GetEnv("DEV_USER_PASSWORD", "orbital-dev"))
	if err != nil {
		return fmt.Errorf("[seedDevUser] failed to hash password: %w", err)
	}

	user := &users.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     "dev",
		PasswordHash: hash,
		FirstName:    "Dev",
		LastName:     "User",
		DateJoined:   time.Now(),
		Verified:     true,
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		return fmt.Errorf("[seedDevUser] failed to create user: %w", err)
	}

	log.Info().Str("email", email).Msg("seeded development user")
	return nil
}
