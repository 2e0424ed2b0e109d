package model

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Starting stats for every player on join
const (
	InitialHealth  = 100
	InitialAttack  = 15
	InitialDefense = 5
)

// Player represents one participant in a game session.
// Owned exclusively by its Game; mutated only by the battle controller.
type Player struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"maxHealth"`
	Attack    int      `json:"attack"`
	Defense   int      `json:"defense"`

	// Buffered moves for the current round (empty until submitted)
	AttackMove  Move `json:"attackMove,omitempty"`
	DefenseMove Move `json:"defenseMove,omitempty"`
}

// NewPlayer creates a player with the standard starting stats
func NewPlayer(id PlayerID, name string) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Health:    InitialHealth,
		MaxHealth: InitialHealth,
		Attack:    InitialAttack,
		Defense:   InitialDefense,
	}
}

// HasSubmitted returns true if the player has buffered a move pair this round
func (p *Player) HasSubmitted() bool {
	return p.AttackMove != "" && p.DefenseMove != ""
}

// ClearMoves resets the buffered move pair after resolution
func (p *Player) ClearMoves() {
	p.AttackMove = ""
	p.DefenseMove = ""
}

// IsDefeated returns true once health has dropped to zero or below
func (p *Player) IsDefeated() bool {
	return p.Health <= 0
}
