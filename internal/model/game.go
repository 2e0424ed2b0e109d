package model

import "time"

// GameID uniquely identifies a game session
type GameID string

// Phase represents the coarse lifecycle stage of a game
type Phase string

const (
	PhaseWaiting   Phase = "waiting"   // One player, waiting for an opponent
	PhaseSelection Phase = "selection" // Both seated, collecting move submissions
	PhaseGameOver  Phase = "game_over" // Terminated by defeat, draw or departure
)

// MaxPlayers is the seat limit for a game session
const MaxPlayers = 2

// MaxLogLines bounds the battle log kept on each game
const MaxLogLines = 50

// Game represents a single battle session between up to two players
type Game struct {
	ID      GameID    `json:"id"`
	Players []*Player `json:"players"`
	Phase   Phase     `json:"phase"`

	// CurrentTurn names the only player allowed to submit while
	// the game is in the selection phase
	CurrentTurn PlayerID `json:"currentTurn,omitempty"`

	// Winner is set on termination; Draw marks mutual defeat
	Winner PlayerID `json:"winner,omitempty"`
	Draw   bool     `json:"draw"`

	// Log holds human-readable battle lines, most recent first
	Log []string `json:"log"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsFull returns true if both seats are taken
func (g *Game) IsFull() bool {
	return len(g.Players) >= MaxPlayers
}

// GetPlayer returns the player with the given id, or nil
func (g *Game) GetPlayer(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other seated player, or nil if alone
func (g *Game) Opponent(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// Host returns the player who created the game, or nil if empty
func (g *Game) Host() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[0]
}

// BothSubmitted returns true once every seated player has buffered a move pair
func (g *Game) BothSubmitted() bool {
	if !g.IsFull() {
		return false
	}
	for _, p := range g.Players {
		if !p.HasSubmitted() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Snapshots handed out for encoding or
// broadcast must not alias state still mutating under a session lock.
func (g *Game) Clone() *Game {
	copied := *g
	copied.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		pc := *p
		copied.Players[i] = &pc
	}
	copied.Log = append([]string(nil), g.Log...)
	return &copied
}

// PrependLog pushes a line onto the front of the battle log,
// trimming the oldest entries past MaxLogLines
func (g *Game) PrependLog(line string) {
	g.Log = append([]string{line}, g.Log...)
	if len(g.Log) > MaxLogLines {
		g.Log = g.Log[:MaxLogLines]
	}
}
