package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/memoriagame/memoria/internal/dependencies/clock"
	"github.com/memoriagame/memoria/internal/model"
	"github.com/memoriagame/memoria/internal/services/board"
	"github.com/memoriagame/memoria/internal/storage"
)

// Timing constants for the turn cycle
const (
	// TurnDuration is how long a player has to act before the turn
	// times out
	TurnDuration = 4000 * time.Millisecond
	// TurnAdvanceDelay is the pacing pause between a timeout
	// notification and the next turn
	TurnAdvanceDelay = 500 * time.Millisecond
	// GameOverResetDelay is how long the final board stays visible
	// before the game auto-resets
	GameOverResetDelay = 5000 * time.Millisecond
	// DisconnectGraceDelay is how long a disconnected current player has
	// to reconnect before their turn is skipped
	DisconnectGraceDelay = 5000 * time.Millisecond
)

// Broadcaster delivers events to connected clients. Implemented by the
// gateway hub, and by a recorder in tests.
type Broadcaster interface {
	Broadcast(event model.EventType, payload any)
	SendToUser(userID model.UserID, event model.EventType, payload any)
}

// JoinOutcome describes how a join request was applied.
type JoinOutcome struct {
	// Reconnected is true when the user was already seated and only the
	// connection handle was refreshed
	Reconnected bool
}

// Scheduler owns the single authoritative game state and enforces the
// at-most-one-active-turn invariant. Every mutation, whether from the
// gateway or a timer callback, runs under its lock, giving the same
// effect ordering as the original single-threaded event loop.
type Scheduler struct {
	registry    storage.Registry
	boards      *board.Service
	clock       clock.Clock
	broadcaster Broadcaster
	logger      *slog.Logger

	mu   sync.Mutex
	game *model.Game
	// epoch is bumped on every turn start, reset, and game over so that
	// deferred callbacks can detect they are stale
	epoch        uint64
	turnTimer    clock.Timer
	disconnected map[model.UserID]bool
}

// NewScheduler creates a Scheduler with a freshly generated board in the
// waiting state.
func NewScheduler(
	registry storage.Registry,
	boards *board.Service,
	clk clock.Clock,
	broadcaster Broadcaster,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		registry:    registry,
		boards:      boards,
		clock:       clk,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "scheduler")),
		game: &model.Game{
			Board:  boards.Generate(),
			Status: model.GameStatusWaiting,
		},
		disconnected: make(map[model.UserID]bool),
	}
}

// Reset regenerates the board and restarts the turn cycle from the first
// player. With zero players the game is left in a benign idle playing
// state with no current player and no timer.
func (s *Scheduler) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(ctx)
}

func (s *Scheduler) resetLocked(ctx context.Context) {
	g := s.game
	g.Board = s.boards.Generate()
	g.Status = model.GameStatusPlaying
	g.CurrentPlayerIndex = 0
	g.TurnStartedAt = s.clock.Now()
	if len(g.Players) > 0 {
		g.CurrentPlayer = g.Players[0]
	} else {
		g.CurrentPlayer = nil
	}

	s.stopTurnTimerLocked()
	s.epoch++
	s.logger.Info("game reset", slog.Int("players", len(g.Players)))
	s.broadcastStateLocked(ctx)

	if len(g.Players) > 0 {
		s.beginTurnLocked(ctx)
	}
}

// beginTurnLocked advances the current player index circularly, skipping
// blocked players, bounded by one full lap. If every player is blocked
// no timer is armed and the game stalls until an admin unblocks someone.
func (s *Scheduler) beginTurnLocked(ctx context.Context) {
	g := s.game
	if len(g.Players) == 0 {
		return
	}

	idx := (g.CurrentPlayerIndex + 1) % len(g.Players)
	skipped := 0
	for s.isBlockedLocked(ctx, g.Players[idx].ID) {
		idx = (idx + 1) % len(g.Players)
		skipped++
		if skipped >= len(g.Players) {
			s.logger.Warn("all players blocked, turn cycle stalled")
			return
		}
	}

	g.CurrentPlayerIndex = idx
	g.CurrentPlayer = g.Players[idx]
	g.TurnStartedAt = s.clock.Now()

	s.stopTurnTimerLocked()
	s.epoch++
	epoch := s.epoch

	s.logger.Info("turn started",
		slog.String("player_id", string(g.CurrentPlayer.ID)),
		slog.String("username", g.CurrentPlayer.Username),
	)
	s.broadcastStateLocked(ctx)

	s.turnTimer = s.clock.AfterFunc(TurnDuration, func() {
		s.handleTurnTimeout(epoch)
	})
}

// handleTurnTimeout fires when the current turn expires. It notifies all
// clients, waits the pacing delay, then begins the next turn.
func (s *Scheduler) handleTurnTimeout(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}
	g := s.game
	if g.Status != model.GameStatusPlaying || g.CurrentPlayer == nil {
		return
	}

	playerID := g.CurrentPlayer.ID
	s.logger.Info("turn timed out", slog.String("player_id", string(playerID)))
	s.broadcaster.Broadcast(model.EventTurnTimeout, model.TurnTimeoutPayload{PlayerID: playerID})

	s.clock.AfterFunc(TurnAdvanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		s.beginTurnLocked(context.Background())
	})
}

// Join seats a user in the game, or refreshes the connection handle of a
// player who is already seated (reconnection). Administrators and
// blocked users are rejected.
func (s *Scheduler) Join(ctx context.Context, user *model.User, connID string) (JoinOutcome, error) {
	if user.IsAdmin {
		return JoinOutcome{}, model.ErrAdminCannotPlay
	}
	if user.IsBlocked {
		return JoinOutcome{}, model.ErrUserBlocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if existing := g.PlayerAt(user.ID); existing != nil {
		existing.ConnID = connID
		delete(s.disconnected, user.ID)
		s.logger.Info("player reconnected",
			slog.String("player_id", string(user.ID)),
			slog.String("conn_id", connID),
		)
		// The turn timer was stopped when this player dropped mid-turn;
		// give them a fresh full turn
		if g.Status == model.GameStatusPlaying &&
			g.CurrentPlayer != nil && g.CurrentPlayer.ID == user.ID &&
			s.turnTimer == nil {
			g.TurnStartedAt = s.clock.Now()
			s.epoch++
			epoch := s.epoch
			s.turnTimer = s.clock.AfterFunc(TurnDuration, func() {
				s.handleTurnTimeout(epoch)
			})
			s.broadcastStateLocked(ctx)
		}
		return JoinOutcome{Reconnected: true}, nil
	}

	g.Players = append(g.Players, &model.Player{
		ID:       user.ID,
		Username: user.Username,
		ConnID:   connID,
	})
	s.logger.Info("player joined",
		slog.String("player_id", string(user.ID)),
		slog.Int("players", len(g.Players)),
	)

	if len(g.Players) == 1 {
		// First player starts the game
		s.resetLocked(ctx)
	} else {
		s.broadcastStateLocked(ctx)
	}
	return JoinOutcome{}, nil
}

// SelectTile validates and applies a tile reveal for the given user. Any
// rejection is returned as a sentinel error; callers drop it silently.
func (s *Scheduler) SelectTile(ctx context.Context, user *model.User, index int) (*model.TileSelectedPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	switch {
	case user.IsBlocked:
		return nil, model.ErrUserBlocked
	case g.Status != model.GameStatusPlaying:
		return nil, model.ErrGameNotPlaying
	case g.CurrentPlayer == nil:
		return nil, model.ErrNoCurrentPlayer
	case g.CurrentPlayer.ID != user.ID:
		return nil, model.ErrNotPlayerTurn
	case index < 0 || index >= len(g.Board):
		return nil, model.ErrTileOutOfRange
	case g.Board[index].Revealed:
		return nil, model.ErrTileRevealed
	}

	g.Board[index].Revealed = true
	value := g.Board[index].Value

	user.Score += value
	if err := s.registry.SaveUser(ctx, user); err != nil {
		s.logger.Error("failed to save score",
			slog.String("user_id", string(user.ID)),
			slog.String("error", err.Error()),
		)
	}

	payload := &model.TileSelectedPayload{
		TileIndex: index,
		TileValue: value,
		PlayerID:  user.ID,
		NewScore:  user.Score,
	}
	s.logger.Info("tile revealed",
		slog.String("player_id", string(user.ID)),
		slog.Int("tile_index", index),
		slog.Int("tile_value", value),
		slog.Int("new_score", user.Score),
	)

	s.broadcaster.Broadcast(model.EventTileSelected, payload)
	s.broadcaster.SendToUser(user.ID, model.EventScoreUpdate, user.Score)

	if g.AllRevealed() {
		s.finishGameLocked(ctx)
	} else {
		s.stopTurnTimerLocked()
		s.beginTurnLocked(ctx)
	}
	return payload, nil
}

// finishGameLocked moves the game to the gameover state, broadcasts the
// final full-value snapshot, and schedules the automatic reset.
func (s *Scheduler) finishGameLocked(ctx context.Context) {
	g := s.game
	g.Status = model.GameStatusGameOver
	g.CurrentPlayer = nil
	g.TurnStartedAt = time.Time{}

	s.stopTurnTimerLocked()
	s.epoch++
	epoch := s.epoch

	s.logger.Info("game over", slog.Int("players", len(g.Players)))
	s.broadcaster.Broadcast(model.EventGameState, s.renderLocked(ctx, true))

	s.clock.AfterFunc(GameOverResetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		s.resetLocked(context.Background())
	})
}

// Leave removes a user from the player list. Leaving mid-turn advances
// the turn; the last player leaving demotes the game to waiting.
func (s *Scheduler) Leave(ctx context.Context, userID model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	idx := g.PlayerIndex(userID)
	if idx == -1 {
		return
	}

	wasCurrent := g.CurrentPlayer != nil && g.CurrentPlayer.ID == userID
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	delete(s.disconnected, userID)
	s.logger.Info("player left",
		slog.String("player_id", string(userID)),
		slog.Int("players", len(g.Players)),
	)

	if wasCurrent {
		s.stopTurnTimerLocked()
		// Cleared now so that a stalled turn start (every remaining
		// player blocked) never leaves the removed player dangling as
		// current
		g.CurrentPlayer = nil
		if len(g.Players) > 0 {
			// Compensate for the removal so beginTurn lands on the seat
			// that followed the leaver
			g.CurrentPlayerIndex = (idx - 1 + len(g.Players)) % len(g.Players)
			s.beginTurnLocked(ctx)
		}
	}

	if len(g.Players) == 0 {
		g.Status = model.GameStatusWaiting
		g.CurrentPlayer = nil
		s.stopTurnTimerLocked()
		s.epoch++
	}

	s.broadcastStateLocked(ctx)
}

// Disconnect records a transport-level drop. The player keeps their seat
// so they can reconnect; if they held the current turn, a grace timer
// advances the turn unless they return in time.
func (s *Scheduler) Disconnect(userID model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if g.PlayerAt(userID) == nil {
		return
	}
	s.disconnected[userID] = true

	if g.CurrentPlayer == nil || g.CurrentPlayer.ID != userID {
		return
	}

	s.stopTurnTimerLocked()
	epoch := s.epoch
	s.logger.Info("current player disconnected, grace timer armed",
		slog.String("player_id", string(userID)),
	)

	s.clock.AfterFunc(DisconnectGraceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		if !s.disconnected[userID] {
			return // Reconnected in time
		}
		if s.game.CurrentPlayer == nil || s.game.CurrentPlayer.ID != userID {
			return
		}
		s.beginTurnLocked(context.Background())
	})
}

// IsSeated reports whether the user currently holds a seat in the game.
func (s *Scheduler) IsSeated(userID model.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PlayerAt(userID) != nil
}

// Snapshot renders the current redacted game state.
func (s *Scheduler) Snapshot(ctx context.Context) model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(ctx, false)
}

// BroadcastState pushes a fresh redacted snapshot to every client.
func (s *Scheduler) BroadcastState(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastStateLocked(ctx)
}

func (s *Scheduler) broadcastStateLocked(ctx context.Context) {
	s.broadcaster.Broadcast(model.EventGameState, s.renderLocked(ctx, false))
}

func (s *Scheduler) renderLocked(ctx context.Context, full bool) model.Snapshot {
	return s.game.Render(full, func(id model.UserID) bool {
		return s.isBlockedLocked(ctx, id)
	})
}

func (s *Scheduler) isBlockedLocked(ctx context.Context, id model.UserID) bool {
	user, err := s.registry.GetUser(ctx, id)
	if err != nil {
		return false
	}
	return user.IsBlocked
}

func (s *Scheduler) stopTurnTimerLocked() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
}
