package model

// TileView is the client-facing rendering of a tile. Value is nil until
// the tile has been revealed, so unrevealed tile identity never leaves
// the server. The final game-over snapshot is the one exception.
type TileView struct {
	Value    *int `json:"value"`
	Revealed bool `json:"revealed"`
}

// PlayerView is the client-facing rendering of a seated player.
type PlayerView struct {
	ID        UserID `json:"id"`
	Username  string `json:"username"`
	IsBlocked bool   `json:"isBlocked"`
}

// Snapshot is the redacted view of game state sent to clients.
// TurnStartTime is Unix milliseconds, zero when no turn has started.
type Snapshot struct {
	Board         []TileView   `json:"board"`
	CurrentPlayer *PlayerView  `json:"currentPlayer"`
	Players       []PlayerView `json:"players"`
	Status        GameStatus   `json:"status"`
	TurnStartTime int64        `json:"turnStartTime,omitempty"`
}

// Render builds a snapshot of the game. When full is true, all tile
// values are included regardless of the revealed flag; blocked status
// for each seated player is taken from the blocked lookup.
func (g *Game) Render(full bool, blocked func(UserID) bool) Snapshot {
	board := make([]TileView, len(g.Board))
	for i, t := range g.Board {
		view := TileView{Revealed: t.Revealed}
		if full || t.Revealed {
			v := t.Value
			view.Value = &v
		}
		board[i] = view
	}

	players := make([]PlayerView, len(g.Players))
	for i, p := range g.Players {
		players[i] = PlayerView{
			ID:        p.ID,
			Username:  p.Username,
			IsBlocked: blocked(p.ID),
		}
	}

	var current *PlayerView
	if g.CurrentPlayer != nil {
		current = &PlayerView{
			ID:        g.CurrentPlayer.ID,
			Username:  g.CurrentPlayer.Username,
			IsBlocked: blocked(g.CurrentPlayer.ID),
		}
	}

	snap := Snapshot{
		Board:         board,
		CurrentPlayer: current,
		Players:       players,
		Status:        g.Status,
	}
	if !g.TurnStartedAt.IsZero() {
		snap.TurnStartTime = g.TurnStartedAt.UnixMilli()
	}
	return snap
}
