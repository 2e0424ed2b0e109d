package battle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mverkerk/rpsbattle/internal/dependencies/clock"
	"github.com/mverkerk/rpsbattle/internal/dependencies/random"
	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/services/damage"
	"github.com/mverkerk/rpsbattle/internal/services/effectiveness"
	"github.com/mverkerk/rpsbattle/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 6
	// GameIDAlphabet is the base-36 character set for game ids
	GameIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// RemovalGraceDelay is how long a finished game stays in the
	// registry so the final broadcast can be delivered
	RemovalGraceDelay = 5 * time.Second
)

// Attack describes one resolved attack direction of a battle round
type Attack struct {
	AttackerID    model.PlayerID
	DefenderID    model.PlayerID
	AttackMove    model.Move
	DefenseMove   model.Move
	Effectiveness effectiveness.Tier
	Damage        int
}

// Result reports what a move submission caused. Attacks is empty until
// both players have submitted and the round resolved.
type Result struct {
	Attacks  []Attack
	GameOver bool
	Winner   model.PlayerID
	Draw     bool
}

// Resolved returns true if this submission triggered a battle round
func (r *Result) Resolved() bool {
	return len(r.Attacks) > 0
}

// Controller owns the game registry and every session's state machine.
// All mutations to a given game are serialized behind a per-game mutex;
// unrelated games never contend.
type Controller struct {
	storage storage.Storage
	damage  *damage.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	locks sync.Map // model.GameID -> *sync.Mutex
}

// NewController creates a new battle Controller
func NewController(
	storage storage.Storage,
	damageService *damage.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		damage:  damageService,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "battle")),
	}
}

// lockFor returns the exclusive mutex guarding one game's read-modify-write
func (c *Controller) lockFor(id model.GameID) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateGame registers a new waiting game hosted by the given player
func (c *Controller) CreateGame(ctx context.Context, hostID model.PlayerID, hostName string) (*model.Game, error) {
	now := c.clock.Now()

	// Generate a unique id, retrying on collision
	var id model.GameID
	for {
		id = model.GameID(c.random.String(GameIDLength, GameIDAlphabet))
		exists, err := c.storage.GameExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	host := model.NewPlayer(hostID, hostName)
	game := &model.Game{
		ID:        id,
		Players:   []*model.Player{host},
		Phase:     model.PhaseWaiting,
		Log:       []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	game.PrependLog(fmt.Sprintf("%s created the game. Waiting for an opponent...", hostName))

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("host_id", string(hostID)),
	)

	return game, nil
}

// GetGame retrieves a game by id
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ListJoinableGames returns a snapshot of games waiting for an opponent
func (c *Controller) ListJoinableGames(ctx context.Context) ([]*model.Game, error) {
	return c.storage.ListWaitingGames(ctx)
}

// JoinGame seats a second player and moves the game into selection.
// The host holds the first turn.
func (c *Controller) JoinGame(ctx context.Context, id model.GameID, playerID model.PlayerID, playerName string) (*model.Game, error) {
	mu := c.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if game.IsFull() {
		return nil, model.ErrGameFull
	}

	game.Players = append(game.Players, model.NewPlayer(playerID, playerName))
	game.Phase = model.PhaseSelection
	game.CurrentTurn = game.Players[0].ID
	game.PrependLog(fmt.Sprintf("%s joined the battle!", playerName))
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(id)),
		slog.String("player_id", string(playerID)),
	)

	return game, nil
}

// SubmitMove buffers one player's (attack, defense) pair. The turn gate
// admits only the current turn holder; once both players have submitted,
// the round resolves in both directions. No state changes on error.
func (c *Controller) SubmitMove(ctx context.Context, id model.GameID, playerID model.PlayerID, attack, defense model.Move) (*model.Game, *Result, error) {
	mu := c.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	player := game.GetPlayer(playerID)
	if player == nil {
		return nil, nil, model.ErrPlayerNotFound
	}

	if game.Phase != model.PhaseSelection {
		return nil, nil, model.ErrNotYourTurn
	}
	if game.CurrentTurn != playerID {
		return nil, nil, model.ErrNotYourTurn
	}

	player.AttackMove = attack
	player.DefenseMove = defense
	game.PrependLog(fmt.Sprintf("%s locked in their moves.", player.Name))

	result := &Result{}
	if game.BothSubmitted() {
		if err := c.resolveRound(game, result); err != nil {
			return nil, nil, err
		}
	} else {
		// Pass the submit gate to the opponent
		opponent := game.Opponent(playerID)
		if opponent == nil {
			return nil, nil, model.ErrInvalidState
		}
		game.CurrentTurn = opponent.ID
	}

	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, err
	}

	if result.GameOver {
		c.scheduleRemoval(game.ID)
	}

	return game, result, nil
}

// resolveRound applies both buffered attacks, clears the move buffers and
// evaluates termination. Called with the game lock held.
func (c *Controller) resolveRound(game *model.Game, result *Result) error {
	if len(game.Players) != model.MaxPlayers {
		return model.ErrInvalidState
	}
	p1, p2 := game.Players[0], game.Players[1]
	if !p1.HasSubmitted() || !p2.HasSubmitted() {
		return model.ErrInvalidState
	}

	first := c.resolveAttack(game, p1, p2)
	second := c.resolveAttack(game, p2, p1)
	result.Attacks = []Attack{first, second}

	p1.ClearMoves()
	p2.ClearMoves()

	switch {
	case p1.IsDefeated() && p2.IsDefeated():
		game.Phase = model.PhaseGameOver
		game.Draw = true
		game.PrependLog("Both fighters fell. The battle is a draw!")
		result.GameOver = true
		result.Draw = true
	case p2.IsDefeated():
		c.declareWinner(game, p1, result)
	case p1.IsDefeated():
		c.declareWinner(game, p2, result)
	default:
		// Next round; the host submits first again
		game.CurrentTurn = p1.ID
	}

	if result.GameOver {
		c.logger.Info("game over",
			slog.String("game_id", string(game.ID)),
			slog.String("winner_id", string(result.Winner)),
			slog.Bool("draw", result.Draw),
		)
	}

	return nil
}

// resolveAttack computes and applies one attack direction
func (c *Controller) resolveAttack(game *model.Game, attacker, defender *model.Player) Attack {
	eff := effectiveness.Resolve(attacker.AttackMove, defender.DefenseMove)
	dmg := c.damage.Calculate(attacker, eff.Multiplier, defender)
	defender.Health -= dmg

	game.PrependLog(fmt.Sprintf("%s's %s hits %s for %d damage (%s effective).",
		attacker.Name, attacker.AttackMove, defender.Name, dmg, eff.Tier))

	return Attack{
		AttackerID:    attacker.ID,
		DefenderID:    defender.ID,
		AttackMove:    attacker.AttackMove,
		DefenseMove:   defender.DefenseMove,
		Effectiveness: eff.Tier,
		Damage:        dmg,
	}
}

// declareWinner terminates the game in the winner's favor
func (c *Controller) declareWinner(game *model.Game, winner *model.Player, result *Result) {
	game.Phase = model.PhaseGameOver
	game.Winner = winner.ID
	game.CurrentTurn = ""
	game.PrependLog(fmt.Sprintf("%s wins the battle!", winner.Name))
	result.GameOver = true
	result.Winner = winner.ID
}

// LeaveGame removes a player. A remaining opponent wins by forfeit and the
// game is scheduled for removal after the grace delay; an emptied game is
// removed immediately.
func (c *Controller) LeaveGame(ctx context.Context, id model.GameID, playerID model.PlayerID) (*model.Game, error) {
	mu := c.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	game, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	leaver := game.GetPlayer(playerID)
	if leaver == nil {
		return nil, model.ErrPlayerNotFound
	}

	for i, p := range game.Players {
		if p.ID == playerID {
			game.Players = append(game.Players[:i], game.Players[i+1:]...)
			break
		}
	}

	if len(game.Players) == 0 {
		if err := c.removeLocked(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	opponent := game.Players[0]
	game.Phase = model.PhaseGameOver
	game.Winner = opponent.ID
	game.CurrentTurn = ""
	game.PrependLog(fmt.Sprintf("%s left the battle. %s wins by forfeit!", leaver.Name, opponent.Name))
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("player left",
		slog.String("game_id", string(id)),
		slog.String("player_id", string(playerID)),
		slog.String("winner_id", string(opponent.ID)),
	)

	c.scheduleRemoval(id)
	return game, nil
}

// RemoveGame deletes a game from the registry; idempotent
func (c *Controller) RemoveGame(ctx context.Context, id model.GameID) error {
	mu := c.lockFor(id)
	mu.Lock()
	defer mu.Unlock()
	return c.removeLocked(ctx, id)
}

// removeLocked deletes a game with its lock already held
func (c *Controller) removeLocked(ctx context.Context, id model.GameID) error {
	if err := c.storage.DeleteGame(ctx, id); err != nil {
		return err
	}
	c.locks.Delete(id)
	c.logger.Info("game removed", slog.String("game_id", string(id)))
	return nil
}

// scheduleRemoval queues a one-shot removal after the grace delay.
// The delayed task no-ops if the game was already removed.
func (c *Controller) scheduleRemoval(id model.GameID) {
	c.clock.AfterFunc(RemovalGraceDelay, func() {
		ctx := context.Background()
		mu := c.lockFor(id)
		mu.Lock()
		defer mu.Unlock()

		exists, err := c.storage.GameExists(ctx, id)
		if err != nil || !exists {
			return
		}
		if err := c.removeLocked(ctx, id); err != nil {
			c.logger.Error("delayed removal failed",
				slog.String("game_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, hostID model.PlayerID, hostName string) (*model.Game, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	ListJoinableGames(ctx context.Context) ([]*model.Game, error)
	JoinGame(ctx context.Context, id model.GameID, playerID model.PlayerID, playerName string) (*model.Game, error)
	SubmitMove(ctx context.Context, id model.GameID, playerID model.PlayerID, attack, defense model.Move) (*model.Game, *Result, error)
	LeaveGame(ctx context.Context, id model.GameID, playerID model.PlayerID) (*model.Game, error)
	RemoveGame(ctx context.Context, id model.GameID) error
}

var _ ControllerInterface = (*Controller)(nil)
