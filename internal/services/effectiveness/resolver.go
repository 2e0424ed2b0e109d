// Package effectiveness resolves a move matchup into a damage multiplier
// and a qualitative tier. Pure and deterministic.
package effectiveness

import "github.com/mverkerk/rpsbattle/internal/model"

// Tier is the qualitative outcome of a move matchup
type Tier string

const (
	TierSuper  Tier = "super"  // attack dominates defense
	TierNormal Tier = "normal" // same move on both sides
	TierNot    Tier = "not"    // attack dominated by defense
)

// Multipliers per tier
const (
	SuperMultiplier  = 2.0
	NormalMultiplier = 1.0
	NotMultiplier    = 0.5
)

// Result pairs the multiplier with its tier
type Result struct {
	Multiplier float64
	Tier       Tier
}

// Resolve maps an (attack, defense) pair to its effectiveness.
// All nine combinations are legal; there is no failure mode.
func Resolve(attack, defense model.Move) Result {
	if attack == defense {
		return Result{Multiplier: NormalMultiplier, Tier: TierNormal}
	}
	if attack.Beats(defense) {
		return Result{Multiplier: SuperMultiplier, Tier: TierSuper}
	}
	return Result{Multiplier: NotMultiplier, Tier: TierNot}
}
