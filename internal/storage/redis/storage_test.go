package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mverkerk/rpsbattle/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newGame(id model.GameID, phase model.Phase, players ...*model.Player) *model.Game {
	return &model.Game{
		ID:        id,
		Players:   players,
		Phase:     phase,
		Log:       []string{},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Require().Len(retrieved.Players, 1)
	s.Equal("Alice", retrieved.Players[0].Name)
	s.Equal(model.InitialHealth, retrieved.Players[0].Health)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	_ = s.storage.SaveGame(s.ctx, game)

	err := s.storage.DeleteGame(s.ctx, "abc123")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameIsIdempotent() {
	s.NoError(s.storage.DeleteGame(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestGameExists() {
	exists, err := s.storage.GameExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.False(exists)

	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	_ = s.storage.SaveGame(s.ctx, game)

	exists, err = s.storage.GameExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGameHasTTL() {
	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	_ = s.storage.SaveGame(s.ctx, game)

	ttl := s.mini.TTL(gameKey("abc123"))
	s.Equal(time.Hour, ttl)
}

func (s *StorageSuite) TestListWaitingGames() {
	waiting := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	full := s.newGame("def456", model.PhaseSelection,
		model.NewPlayer("p2", "Bob"), model.NewPlayer("p3", "Carol"))

	_ = s.storage.SaveGame(s.ctx, waiting)
	_ = s.storage.SaveGame(s.ctx, full)

	games, err := s.storage.ListWaitingGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("abc123"), games[0].ID)
}

func (s *StorageSuite) TestListWaitingGamesEmptyIndex() {
	games, err := s.storage.ListWaitingGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestWaitingIndexFollowsPhase() {
	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	_ = s.storage.SaveGame(s.ctx, game)

	games, _ := s.storage.ListWaitingGames(s.ctx)
	s.Len(games, 1)

	game.Players = append(game.Players, model.NewPlayer("p2", "Bob"))
	game.Phase = model.PhaseSelection
	_ = s.storage.SaveGame(s.ctx, game)

	games, _ = s.storage.ListWaitingGames(s.ctx)
	s.Empty(games)
}

func (s *StorageSuite) TestListSkipsExpiredEntries() {
	game := s.newGame("abc123", model.PhaseWaiting, model.NewPlayer("p1", "Alice"))
	_ = s.storage.SaveGame(s.ctx, game)

	// Expire the game value while its index entry lingers
	s.mini.FastForward(2 * time.Hour)

	games, err := s.storage.ListWaitingGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}
