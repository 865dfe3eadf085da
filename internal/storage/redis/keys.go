package redis

import (
	"fmt"

	"github.com/memoriagame/memoria/internal/model"
)

// Key prefix for all registry data
const keyPrefix = "memoria"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// userOrderKey returns the Redis key for the LIST preserving insertion order
func userOrderKey() string {
	return fmt.Sprintf("%s:idx:user_order", keyPrefix)
}
