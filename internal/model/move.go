package model

// Move is one of the three battle moves
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// ParseMove validates a raw move string
func ParseMove(s string) (Move, error) {
	switch Move(s) {
	case MoveRock, MovePaper, MoveScissors:
		return Move(s), nil
	default:
		return "", ErrInvalidMove
	}
}

// Beats reports whether m dominates other in the move cycle:
// rock beats scissors, scissors beats paper, paper beats rock
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MovePaper:
		return other == MoveRock
	case MoveScissors:
		return other == MovePaper
	default:
		return false
	}
}
