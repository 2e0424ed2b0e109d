// Package damage computes clamped battle damage from attacker stats,
// an effectiveness multiplier, defender stats and bounded jitter.
package damage

import (
	"math"

	"github.com/mverkerk/rpsbattle/internal/dependencies/random"
	"github.com/mverkerk/rpsbattle/internal/model"
)

const (
	// FloorDamage is the minimum damage per hit, preventing
	// zero/negative-damage stalemates
	FloorDamage = 5

	// JitterRange bounds the uniform jitter drawn per hit: [0, JitterRange)
	JitterRange = 5
)

// Service calculates damage values using an injectable randomness source
type Service struct {
	random random.Random
}

// New creates a new damage Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Calculate returns max(FloorDamage, floor(attack*multiplier - defense + jitter))
func (s *Service) Calculate(attacker *model.Player, multiplier float64, defender *model.Player) int {
	jitter := s.random.Intn(JitterRange)
	raw := int(math.Floor(float64(attacker.Attack)*multiplier - float64(defender.Defense) + float64(jitter)))
	if raw < FloorDamage {
		return FloorDamage
	}
	return raw
}
