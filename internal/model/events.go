package model

// EventType identifies a server-emitted event
type EventType string

const (
	// Broadcast events
	EventGameState     EventType = "gameState"
	EventTileSelected  EventType = "tileSelected"
	EventTurnTimeout   EventType = "turnTimeout"
	EventPlayersUpdate EventType = "playersUpdate"

	// Private events
	EventScoreUpdate EventType = "scoreUpdate"
	EventBlocked     EventType = "blocked"
)

// TileSelectedPayload is broadcast after an accepted tile reveal.
type TileSelectedPayload struct {
	TileIndex int    `json:"tileIndex"`
	TileValue int    `json:"tileValue"`
	PlayerID  UserID `json:"playerId"`
	NewScore  int    `json:"newScore"`
}

// TurnTimeoutPayload names the player whose turn expired.
type TurnTimeoutPayload struct {
	PlayerID UserID `json:"playerId"`
}
