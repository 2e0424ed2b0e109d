package redis

import (
	"fmt"

	"github.com/mverkerk/rpsbattle/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "rpsbattle"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// waitingIndexKey returns the Redis key for the SET of joinable game keys
func waitingIndexKey() string {
	return fmt.Sprintf("%s:idx:waiting", keyPrefix)
}
