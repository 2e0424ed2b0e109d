package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/services/battle"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete battle flow from creation to cleanup
func (s *IntegrationSuite) TestCompleteBattleFlow() {
	s.app.MockRandom.QueueString("abc123")

	// Step 1: Host creates a game
	game, err := s.app.BattleController.CreateGame(s.ctx, "p1", "Alice")
	s.Require().NoError(err)
	s.Equal(model.GameID("abc123"), game.ID)
	s.Equal(model.PhaseWaiting, game.Phase)

	// Step 2: The game shows up as joinable
	joinable, err := s.app.BattleController.ListJoinableGames(s.ctx)
	s.Require().NoError(err)
	s.Len(joinable, 1)

	// Step 3: An opponent joins
	game, err = s.app.BattleController.JoinGame(s.ctx, "abc123", "p2", "Bob")
	s.Require().NoError(err)
	s.Equal(model.PhaseSelection, game.Phase)
	s.Equal(model.PlayerID("p1"), game.CurrentTurn)

	// Step 4: Battle rounds. Alice's rock dominates Bob's scissors
	// defense for 25 per round while Bob chips in 5, so Bob falls
	// after four rounds.
	var result *battle.Result
	for round := 0; round < 4; round++ {
		_, _, err = s.app.BattleController.SubmitMove(s.ctx, "abc123", "p1", model.MoveRock, model.MoveRock)
		s.Require().NoError(err)

		s.app.MockRandom.QueueIntn(0, 0)
		game, result, err = s.app.BattleController.SubmitMove(s.ctx, "abc123", "p2", model.MoveScissors, model.MoveScissors)
		s.Require().NoError(err)
	}

	s.Require().True(result.GameOver)
	s.Equal(model.PlayerID("p1"), result.Winner)
	s.Equal(model.PhaseGameOver, game.Phase)
	s.Equal(80, game.GetPlayer("p1").Health)
	s.LessOrEqual(game.GetPlayer("p2").Health, 0)

	// Step 5: The finished game is cleaned up after the grace delay
	s.app.MockClock.Advance(battle.RemovalGraceDelay)
	_, err = s.app.BattleController.GetGame(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *IntegrationSuite) TestForfeitFlow() {
	s.app.MockRandom.QueueString("abc123")

	_, err := s.app.BattleController.CreateGame(s.ctx, "p1", "Alice")
	s.Require().NoError(err)
	_, err = s.app.BattleController.JoinGame(s.ctx, "abc123", "p2", "Bob")
	s.Require().NoError(err)

	game, err := s.app.BattleController.LeaveGame(s.ctx, "abc123", "p1")
	s.Require().NoError(err)
	s.Require().NotNil(game)
	s.Equal(model.PlayerID("p2"), game.Winner)

	s.app.MockClock.Advance(battle.RemovalGraceDelay)
	_, err = s.app.BattleController.GetGame(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *IntegrationSuite) TestNewWithMemoryStorage() {
	app, err := New(Config{StorageType: StorageTypeMemory})
	s.Require().NoError(err)
	s.NotNil(app.BattleController)
	s.NotNil(app.Gateway)
}

func (s *IntegrationSuite) TestNewDefaultsToMemoryStorage() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorageType() {
	_, err := New(Config{StorageType: "cassandra"})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewRequiresRedisConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}
