package storage

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/memoriagame/memoria/internal/model"
)

// seedCredential is one entry of the fixed startup roster.
type seedCredential struct {
	id         model.UserID
	username   string
	credential string
	score      int
	isAdmin    bool
}

// seedRoster is the flat credential list the server boots with. There is
// no signup flow; these are the only identities that can log in.
func seedRoster() []seedCredential {
	roster := make([]seedCredential, 0, 11)
	for i := 1; i <= 10; i++ {
		roster = append(roster, seedCredential{
			id:         model.UserID(fmt.Sprintf("%d", i)),
			username:   fmt.Sprintf("jugador%d", i),
			credential: fmt.Sprintf("clave%d", i),
			score:      5000,
		})
	}
	roster = append(roster, seedCredential{
		id:         "admin",
		username:   "admin",
		credential: "admin123",
		isAdmin:    true,
	})
	return roster
}

// Seed populates the registry with the fixed user roster, hashing each
// credential with bcrypt at the given cost. Existing users are
// overwritten, which resets scores and block flags.
func Seed(ctx context.Context, registry Registry, bcryptCost int) error {
	for _, entry := range seedRoster() {
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.credential), bcryptCost)
		if err != nil {
			return fmt.Errorf("hashing credential for %s: %w", entry.username, err)
		}
		user := &model.User{
			ID:             entry.id,
			Username:       entry.username,
			CredentialHash: string(hash),
			Score:          entry.score,
			IsAdmin:        entry.isAdmin,
		}
		if err := registry.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("saving seed user %s: %w", entry.username, err)
		}
	}
	return nil
}
