package memory

import (
	"context"
	"sync"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/storage"
)

// Registry is an in-memory implementation of the user registry
type Registry struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	order         []model.UserID
}

// New creates a new in-memory registry instance
func New() *Registry {
	return &Registry{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
	}
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) SaveUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; !exists {
		r.order = append(r.order, user.ID)
	}
	copied := *user
	r.users[user.ID] = &copied
	r.usernameIndex[user.Username] = user.ID
	return nil
}

func (r *Registry) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *Registry) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *Registry) ListUsers(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*model.User, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.users[id]
		users = append(users, &copied)
	}
	return users, nil
}
