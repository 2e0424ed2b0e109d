package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mverkerk/rpsbattle/internal/dependencies/clock"
	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/services/battle"
)

// AnimationDelay is how long the post-battle snapshot broadcast is held
// back so clients can play out attack animations. Must stay below the
// controller's removal grace delay so the snapshot lands before cleanup.
const AnimationDelay = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Gateway translates inbound websocket events into battle controller
// calls and pushes resulting state to all room members
type Gateway struct {
	controller battle.ControllerInterface
	hub        *Hub
	clock      clock.Clock
	logger     *slog.Logger
}

// NewGateway creates a new Gateway
func NewGateway(controller battle.ControllerInterface, hub *Hub, clk clock.Clock, logger *slog.Logger) *Gateway {
	return &Gateway{
		controller: controller,
		hub:        hub,
		clock:      clk,
		logger:     logger.With(slog.String("component", "ws-gateway")),
	}
}

// HandleConnection upgrades an HTTP request and runs the client pumps
func (g *Gateway) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(conn, g, g.logger)
	g.logger.Info("client connected", slog.String("conn_id", client.id))

	go client.writePump()
	client.readPump()
}

// disconnect cleans up room membership when a connection drops.
// No game state is mutated; an absent player forfeits only via leave_game.
func (g *Gateway) disconnect(client *Client) {
	g.hub.LeaveAll(client)
	close(client.send)
	g.logger.Info("client disconnected",
		slog.String("conn_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
	)
}

// dispatch routes one inbound envelope to its handler
func (g *Gateway) dispatch(client *Client, env Envelope) {
	ctx := context.Background()

	switch env.Event {
	case EventCreateGame:
		g.handleCreateGame(ctx, client, env.Payload)
	case EventJoinGame:
		g.handleJoinGame(ctx, client, env.Payload)
	case EventGetAvailableGames:
		g.handleGetAvailableGames(ctx, client)
	case EventSubmitMove:
		g.handleSubmitMove(ctx, client, env.Payload)
	case EventLeaveGame:
		g.handleLeaveGame(ctx, client, env.Payload)
	default:
		client.SendError(CodeInvalidRequest, "unknown event: "+string(env.Event))
	}
}

func (g *Gateway) handleCreateGame(ctx context.Context, client *Client, payload json.RawMessage) {
	var req CreateGamePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.PlayerID == "" || req.PlayerName == "" {
		client.SendError(CodeInvalidRequest, "create_game requires playerId and playerName")
		return
	}

	game, err := g.controller.CreateGame(ctx, model.PlayerID(req.PlayerID), req.PlayerName)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	g.hub.Join(game.ID, client)
	client.Send(EventCreateGame, CreateGameAck{GameID: string(game.ID)})
}

func (g *Gateway) handleJoinGame(ctx context.Context, client *Client, payload json.RawMessage) {
	var req JoinGamePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.GameID == "" || req.PlayerID == "" || req.PlayerName == "" {
		client.SendError(CodeInvalidRequest, "join_game requires gameId, playerId and playerName")
		return
	}

	game, err := g.controller.JoinGame(ctx, model.GameID(req.GameID), model.PlayerID(req.PlayerID), req.PlayerName)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	g.hub.Join(game.ID, client)
	client.Send(EventJoinGame, JoinGameAck{GameID: string(game.ID), GameState: game})
	g.hub.Broadcast(game.ID, EventGameStateUpdate, game)
}

func (g *Gateway) handleGetAvailableGames(ctx context.Context, client *Client) {
	games, err := g.controller.ListJoinableGames(ctx)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	listings := make([]GameListing, 0, len(games))
	for _, game := range games {
		host := game.Host()
		if host == nil {
			continue
		}
		listings = append(listings, GameListing{
			ID:      string(game.ID),
			Host:    host.Name,
			Players: len(game.Players),
		})
	}

	client.Send(EventAvailableGames, AvailableGamesPayload{Games: listings})
}

func (g *Gateway) handleSubmitMove(ctx context.Context, client *Client, payload json.RawMessage) {
	var req SubmitMovePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.GameID == "" || req.PlayerID == "" {
		client.SendError(CodeInvalidRequest, "submit_move requires gameId, playerId, attackType and defenseType")
		return
	}

	attack, err := model.ParseMove(req.AttackType)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}
	defense, err := model.ParseMove(req.DefenseType)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	gameID := model.GameID(req.GameID)
	game, result, err := g.controller.SubmitMove(ctx, gameID, model.PlayerID(req.PlayerID), attack, defense)
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	if !result.Resolved() {
		g.hub.Broadcast(gameID, EventGameStateUpdate, game)
		return
	}

	for _, atk := range result.Attacks {
		g.hub.Broadcast(gameID, EventAttackAnimation, AttackAnimationPayload{
			AttackerID:    string(atk.AttackerID),
			DefenderID:    string(atk.DefenderID),
			AttackType:    atk.AttackMove,
			DefenseType:   atk.DefenseMove,
			Effectiveness: atk.Effectiveness,
			Damage:        atk.Damage,
		})
	}

	if result.GameOver {
		g.hub.Broadcast(gameID, EventGameOver, GameOverPayload{
			WinnerID: string(result.Winner),
			Draw:     result.Draw,
		})
	}

	// Hold the snapshot back so clients can play the round out; the
	// game outlives this delay via the controller's removal grace.
	g.scheduleSnapshotBroadcast(gameID)
}

func (g *Gateway) handleLeaveGame(ctx context.Context, client *Client, payload json.RawMessage) {
	var req LeaveGamePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.GameID == "" || req.PlayerID == "" {
		client.SendError(CodeInvalidRequest, "leave_game requires gameId and playerId")
		return
	}

	gameID := model.GameID(req.GameID)
	game, err := g.controller.LeaveGame(ctx, gameID, model.PlayerID(req.PlayerID))
	if err != nil {
		g.sendControllerError(client, err)
		return
	}

	g.hub.Leave(gameID, client)

	// game is nil when the last player left and the session was removed
	if game != nil {
		g.hub.Broadcast(gameID, EventGameStateUpdate, game)
		g.hub.Broadcast(gameID, EventGameOver, GameOverPayload{WinnerID: string(game.Winner)})
	}
}

// scheduleSnapshotBroadcast queues the exactly-once post-resolution state
// push, re-reading the game when the delay fires
func (g *Gateway) scheduleSnapshotBroadcast(gameID model.GameID) {
	g.clock.AfterFunc(AnimationDelay, func() {
		game, err := g.controller.GetGame(context.Background(), gameID)
		if err != nil {
			// Game was removed in the meantime; nothing to deliver
			return
		}
		g.hub.Broadcast(gameID, EventGameStateUpdate, game)
	})
}

// sendControllerError maps a controller error onto the wire taxonomy,
// reported only to the requesting connection
func (g *Gateway) sendControllerError(client *Client, err error) {
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		client.SendError(CodeGameNotFound, "Game not found")
	case errors.Is(err, model.ErrGameFull):
		client.SendError(CodeGameFull, "Game already has two players")
	case errors.Is(err, model.ErrPlayerNotFound):
		client.SendError(CodePlayerNotFound, "Player is not in this game")
	case errors.Is(err, model.ErrNotYourTurn):
		client.SendError(CodeNotYourTurn, "Not your turn")
	case errors.Is(err, model.ErrInvalidMove):
		client.SendError(CodeInvalidMove, "Move must be rock, paper or scissors")
	case errors.Is(err, model.ErrInvalidState):
		client.SendError(CodeInvalidState, "Game is in an invalid state for this action")
	default:
		g.logger.Error("unexpected controller error", slog.String("error", err.Error()))
		client.SendError(CodeInternalError, "Internal server error")
	}
}
