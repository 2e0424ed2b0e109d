package storage

import (
	"context"

	"github.com/mverkerk/rpsbattle/internal/model"
)

// Storage defines the interface for the game registry backend.
// Implementations must be safe for concurrent use across different
// game ids without contention on unrelated entries.
type Storage interface {
	// SaveGame inserts or replaces a game
	SaveGame(ctx context.Context, game *model.Game) error

	// GetGame returns the game or model.ErrGameNotFound
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// DeleteGame removes a game; idempotent
	DeleteGame(ctx context.Context, id model.GameID) error

	// GameExists reports whether the id is taken
	GameExists(ctx context.Context, id model.GameID) (bool, error)

	// ListWaitingGames returns a snapshot of joinable games
	// (waiting phase, open seat); order is unspecified
	ListWaitingGames(ctx context.Context) ([]*model.Game, error)
}
