package gateway

import (
	"encoding/json"

	"github.com/memoriagame/memoria/internal/model"
)

// Client action names received over the websocket
const (
	ActionTest            = "test"
	ActionLogin           = "login"
	ActionJoinGame        = "joinGame"
	ActionSelectTile      = "selectTile"
	ActionGetPlayers      = "getPlayers"
	ActionUpdatePoints    = "updatePoints"
	ActionToggleBlockUser = "toggleBlockUser"
	ActionResetGame       = "resetGame"
	ActionLeaveGame       = "leaveGame"
)

// Response event names emitted back to the requesting connection
const (
	eventTestResponse            = "testResponse"
	eventLoginResponse           = "loginResponse"
	eventTileSelectResponse      = "tileSelectResponse"
	eventGetPlayersResponse      = "getPlayersResponse"
	eventUpdatePointsResponse    = "updatePointsResponse"
	eventToggleBlockUserResponse = "toggleBlockUserResponse"
	eventResetGameResponse       = "resetGameResponse"
)

// Request is the inbound wire frame
type Request struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Frame is the outbound wire frame
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse acknowledges a login attempt
type LoginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	UserID    model.UserID `json:"userId,omitempty"`
	Username  string       `json:"username,omitempty"`
	Score     int          `json:"score,omitempty"`
	IsAdmin   bool         `json:"isAdmin,omitempty"`
	IsBlocked bool         `json:"isBlocked,omitempty"`
}

// SelectTileRequest names the tile a player wants to reveal
type SelectTileRequest struct {
	TileIndex int `json:"tileIndex"`
}

// TileSelectAck is the unconditional receipt sent before any validation
type TileSelectAck struct {
	Received  bool `json:"received"`
	TileIndex int  `json:"tileIndex"`
}

// UpdatePointsRequest carries an admin score adjustment
type UpdatePointsRequest struct {
	UserID model.UserID `json:"userId"`
	Points int          `json:"points"`
}

// ToggleBlockRequest names the user whose blocked flag should flip
type ToggleBlockRequest struct {
	UserID model.UserID `json:"userId"`
}

// Ack is the generic admin operation acknowledgment
type Ack struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Players []model.RosterEntry `json:"players,omitempty"`
}
