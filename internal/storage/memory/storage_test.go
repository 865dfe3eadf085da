package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/memoriagame/memoria/internal/model"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = New()
	s.ctx = context.Background()
}

func (s *RegistrySuite) TestSaveAndGetUser() {
	user := &model.User{ID: "1", Username: "jugador1", Score: 5000}
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	retrieved, err := s.registry.GetUser(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
	s.Equal(user.Username, retrieved.Username)
	s.Equal(user.Score, retrieved.Score)
}

func (s *RegistrySuite) TestGetUserNotFound() {
	_, err := s.registry.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *RegistrySuite) TestGetUserByUsername() {
	user := &model.User{ID: "1", Username: "jugador1", Score: 5000}
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	retrieved, err := s.registry.GetUserByUsername(s.ctx, "jugador1")
	s.Require().NoError(err)
	s.Equal(model.UserID("1"), retrieved.ID)
}

func (s *RegistrySuite) TestGetUserByUsernameNotFound() {
	_, err := s.registry.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *RegistrySuite) TestSaveOverwritesExistingUser() {
	user := &model.User{ID: "1", Username: "jugador1", Score: 5000}
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	user.Score = 8000
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	retrieved, err := s.registry.GetUser(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(8000, retrieved.Score)
}

func (s *RegistrySuite) TestGetReturnsCopy() {
	user := &model.User{ID: "1", Username: "jugador1", Score: 5000}
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	first, err := s.registry.GetUser(s.ctx, "1")
	s.Require().NoError(err)
	first.Score = 9999

	second, err := s.registry.GetUser(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(5000, second.Score)
}

func (s *RegistrySuite) TestSaveStoresCopy() {
	user := &model.User{ID: "1", Username: "jugador1", Score: 5000}
	s.Require().NoError(s.registry.SaveUser(s.ctx, user))

	user.Score = 9999

	retrieved, err := s.registry.GetUser(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(5000, retrieved.Score)
}

func (s *RegistrySuite) TestListUsersPreservesInsertionOrder() {
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "3", Username: "jugador3"}))
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "1", Username: "jugador1"}))
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "2", Username: "jugador2"}))

	users, err := s.registry.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal(model.UserID("3"), users[0].ID)
	s.Equal(model.UserID("1"), users[1].ID)
	s.Equal(model.UserID("2"), users[2].ID)
}

func (s *RegistrySuite) TestListUsersOverwriteKeepsOriginalPosition() {
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "1", Username: "jugador1"}))
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "2", Username: "jugador2"}))
	s.Require().NoError(s.registry.SaveUser(s.ctx, &model.User{ID: "1", Username: "jugador1", Score: 100}))

	users, err := s.registry.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(model.UserID("1"), users[0].ID)
	s.Equal(100, users[0].Score)
}

func (s *RegistrySuite) TestListUsersEmpty() {
	users, err := s.registry.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}
