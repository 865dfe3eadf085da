package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/storage"
)

// Registry is a Redis-backed implementation of the user registry
type Registry struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis registry instance
func New(cfg Config) (*Registry, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Registry{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis registry with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Registry {
	return &Registry{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (r *Registry) Close() error {
	return r.client.Close()
}

// Ensure Registry implements the interface
var _ storage.Registry = (*Registry)(nil)

func (r *Registry) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, userKey(user.ID)).Result()
	if err != nil {
		return err
	}

	// Pipeline the value write with its index updates
	pipe := r.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Username), string(user.ID), 0)
	if exists == 0 {
		pipe.RPush(ctx, userOrderKey(), string(user.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Registry) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Registry) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	idStr, err := r.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return r.GetUser(ctx, model.UserID(idStr))
}

func (r *Registry) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := r.client.LRange(ctx, userOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(model.UserID(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			continue // Skip invalid data
		}
		users = append(users, &user)
	}

	return users, nil
}
