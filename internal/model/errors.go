package model

import "errors"

// Common errors used across the application
var (
	// Registry errors
	ErrGameNotFound = errors.New("game not found")
	ErrGameFull     = errors.New("game already has two players")

	// Session errors
	ErrPlayerNotFound = errors.New("player not in game")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrInvalidMove    = errors.New("invalid move type")

	// ErrInvalidState covers internal inconsistencies (e.g. resolution
	// requested with a missing move buffer); the session stays usable
	ErrInvalidState = errors.New("game is in an invalid state for this action")
)
