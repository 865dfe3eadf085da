package model

import "time"

// GameStatus represents the current phase of the shared game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"  // No players seated yet
	GameStatusPlaying  GameStatus = "playing"  // Turn cycle running
	GameStatusGameOver GameStatus = "gameover" // Board fully revealed, reset pending
)

// Board dimensions and tile values. The board is always BoardSize tiles,
// half holding +TileValue and half -TileValue.
const (
	BoardSize = 16
	TileValue = 15000
)

// Tile is one cell of the board holding a hidden point value until revealed.
// The revealed flag only ever flips false -> true; a reset recreates the
// whole board.
type Tile struct {
	Value    int
	Revealed bool
}

// Player is an identity currently seated in the active round, along with
// the websocket connection it last joined from. The connection ID is
// updated in place on reconnection.
type Player struct {
	ID       UserID
	Username string
	ConnID   string
}

// Game is the single authoritative game state. Exactly one instance
// exists process-wide; it is owned by the turn scheduler.
type Game struct {
	Board              []Tile
	Players            []*Player
	CurrentPlayerIndex int
	CurrentPlayer      *Player
	Status             GameStatus
	TurnStartedAt      time.Time
}

// PlayerAt returns the seated player with the given ID, or nil.
func (g *Game) PlayerAt(id UserID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerIndex returns the seat index of the given ID, or -1.
func (g *Game) PlayerIndex(id UserID) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// AllRevealed reports whether every tile on the board has been revealed.
func (g *Game) AllRevealed() bool {
	for _, t := range g.Board {
		if !t.Revealed {
			return false
		}
	}
	return true
}
