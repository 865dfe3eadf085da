package storage

import (
	"context"

	"github.com/memoriagame/memoria/internal/model"
)

// Registry defines the interface for user persistence. Game state is
// deliberately not stored here: it lives in the turn scheduler for the
// process lifetime.
type Registry interface {
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// ListUsers returns every user in insertion order
	ListUsers(ctx context.Context) ([]*model.User, error)
}
