package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/storage"
)

// Service authenticates users against the registry
type Service struct {
	registry storage.Registry
	logger   *slog.Logger
}

// New creates a new auth service
func New(registry storage.Registry, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger.With(slog.String("component", "auth")),
	}
}

// Login verifies the username/credential pair and returns the matching
// user. Unknown usernames and bad credentials both surface as
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, credential string) (*model.User, error) {
	user, err := s.registry.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(credential)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info("user authenticated",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}
