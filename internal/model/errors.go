package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Login errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyConnected   = errors.New("user is already connected")

	// Admin errors
	ErrUnauthorized = errors.New("not authorized")

	// Gameplay rejections. These are dropped silently at the gateway
	// (logged, never sent to the client) but kept as distinct sentinels
	// so the silent-drop policy is testable.
	ErrUserBlocked     = errors.New("user is blocked")
	ErrAdminCannotPlay = errors.New("administrators cannot join the game")
	ErrGameNotPlaying  = errors.New("game is not in the playing state")
	ErrNoCurrentPlayer = errors.New("no current player")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrTileOutOfRange  = errors.New("tile index out of range")
	ErrTileRevealed    = errors.New("tile is already revealed")
)
