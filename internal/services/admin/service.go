package admin

import (
	"context"
	"log/slog"

	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/services/game"
	"github.com/memoriagame/memoria/internal/storage"
)

// Service implements the privileged moderation operations. Every call
// requires the acting user to carry the admin flag.
type Service struct {
	registry    storage.Registry
	scheduler   *game.Scheduler
	broadcaster game.Broadcaster
	logger      *slog.Logger
}

// New creates a new admin service
func New(
	registry storage.Registry,
	scheduler *game.Scheduler,
	broadcaster game.Broadcaster,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:    registry,
		scheduler:   scheduler,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "admin")),
	}
}

// GetPlayers returns the roster of every non-admin user.
func (s *Service) GetPlayers(ctx context.Context, actor *model.User) ([]model.RosterEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.roster(ctx)
}

// UpdatePoints adds delta to the target's score (delta may be negative,
// no floor or ceiling), privately notifies the target's connection if
// any, and broadcasts the refreshed roster.
func (s *Service) UpdatePoints(ctx context.Context, actor *model.User, targetID model.UserID, delta int) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	target, err := s.registry.GetUser(ctx, targetID)
	if err != nil {
		return err
	}

	target.Score += delta
	if err := s.registry.SaveUser(ctx, target); err != nil {
		return err
	}

	s.logger.Info("points updated",
		slog.String("admin_id", string(actor.ID)),
		slog.String("target_id", string(targetID)),
		slog.Int("delta", delta),
		slog.Int("new_score", target.Score),
	)

	s.broadcaster.SendToUser(targetID, model.EventScoreUpdate, target.Score)
	s.broadcastRoster(ctx)
	return nil
}

// ToggleBlock flips the target's blocked flag. A newly blocked user gets
// a dedicated private notification; everyone gets the refreshed roster
// and a full game-state snapshot so the change is visible in every
// player list.
func (s *Service) ToggleBlock(ctx context.Context, actor *model.User, targetID model.UserID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	target, err := s.registry.GetUser(ctx, targetID)
	if err != nil {
		return err
	}

	target.IsBlocked = !target.IsBlocked
	if err := s.registry.SaveUser(ctx, target); err != nil {
		return err
	}

	s.logger.Info("block toggled",
		slog.String("admin_id", string(actor.ID)),
		slog.String("target_id", string(targetID)),
		slog.Bool("blocked", target.IsBlocked),
	)

	if target.IsBlocked {
		s.broadcaster.SendToUser(targetID, model.EventBlocked, nil)
	}
	s.broadcastRoster(ctx)
	s.scheduler.BroadcastState(ctx)
	return nil
}

// ResetGame unconditionally restarts the turn cycle.
func (s *Service) ResetGame(ctx context.Context, actor *model.User) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	s.logger.Info("game reset requested", slog.String("admin_id", string(actor.ID)))
	s.scheduler.Reset(ctx)
	return nil
}

func (s *Service) roster(ctx context.Context) ([]model.RosterEntry, error) {
	users, err := s.registry.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]model.RosterEntry, 0, len(users))
	for _, u := range users {
		if u.IsAdmin {
			continue
		}
		roster = append(roster, u.RosterView())
	}
	return roster, nil
}

func (s *Service) broadcastRoster(ctx context.Context) {
	roster, err := s.roster(ctx)
	if err != nil {
		s.logger.Error("failed to build roster", slog.String("error", err.Error()))
		return
	}
	s.broadcaster.Broadcast(model.EventPlayersUpdate, roster)
}

func requireAdmin(actor *model.User) error {
	if actor == nil || !actor.IsAdmin {
		return model.ErrUnauthorized
	}
	return nil
}
