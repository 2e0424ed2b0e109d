package effectiveness

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mverkerk/rpsbattle/internal/model"
)

type ResolverSuite struct {
	suite.Suite
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) TestAllMatchups() {
	cases := []struct {
		attack  model.Move
		defense model.Move
		want    Result
	}{
		{model.MoveRock, model.MoveRock, Result{NormalMultiplier, TierNormal}},
		{model.MoveRock, model.MovePaper, Result{NotMultiplier, TierNot}},
		{model.MoveRock, model.MoveScissors, Result{SuperMultiplier, TierSuper}},
		{model.MovePaper, model.MoveRock, Result{SuperMultiplier, TierSuper}},
		{model.MovePaper, model.MovePaper, Result{NormalMultiplier, TierNormal}},
		{model.MovePaper, model.MoveScissors, Result{NotMultiplier, TierNot}},
		{model.MoveScissors, model.MoveRock, Result{NotMultiplier, TierNot}},
		{model.MoveScissors, model.MovePaper, Result{SuperMultiplier, TierSuper}},
		{model.MoveScissors, model.MoveScissors, Result{NormalMultiplier, TierNormal}},
	}

	for _, tc := range cases {
		got := Resolve(tc.attack, tc.defense)
		s.Equal(tc.want, got, "attack=%s defense=%s", tc.attack, tc.defense)
	}
}

func (s *ResolverSuite) TestMirrorMatchupsAreNeverSuper() {
	for _, m := range []model.Move{model.MoveRock, model.MovePaper, model.MoveScissors} {
		s.Equal(TierNormal, Resolve(m, m).Tier)
	}
}

func (s *ResolverSuite) TestDominanceIsAntisymmetric() {
	moves := []model.Move{model.MoveRock, model.MovePaper, model.MoveScissors}
	for _, a := range moves {
		for _, d := range moves {
			if a == d {
				continue
			}
			forward := Resolve(a, d).Tier
			backward := Resolve(d, a).Tier
			if forward == TierSuper {
				s.Equal(TierNot, backward)
			} else {
				s.Equal(TierSuper, backward)
			}
		}
	}
}
