package ws

import (
	"encoding/json"

	"github.com/mverkerk/rpsbattle/internal/model"
	"github.com/mverkerk/rpsbattle/internal/services/effectiveness"
)

// EventType identifies a named message on the websocket protocol
type EventType string

const (
	// Inbound (client -> server)
	EventCreateGame        EventType = "create_game"
	EventJoinGame          EventType = "join_game"
	EventGetAvailableGames EventType = "get_available_games"
	EventSubmitMove        EventType = "submit_move"
	EventLeaveGame         EventType = "leave_game"

	// Outbound (server -> client)
	EventAvailableGames  EventType = "available_games"
	EventGameStateUpdate EventType = "game_state_update"
	EventAttackAnimation EventType = "attack_animation"
	EventGameOver        EventType = "game_over"
	EventError           EventType = "error"
)

// Envelope is the wire format for every message in both directions
type Envelope struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CreateGamePayload is the inbound create_game payload
type CreateGamePayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// CreateGameAck acknowledges a create_game request
type CreateGameAck struct {
	GameID string `json:"gameId"`
}

// JoinGamePayload is the inbound join_game payload
type JoinGamePayload struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// JoinGameAck acknowledges a join_game request with the full state
type JoinGameAck struct {
	GameID    string      `json:"gameId"`
	GameState *model.Game `json:"gameState"`
}

// GameListing is one entry of the available_games response
type GameListing struct {
	ID      string `json:"id"`
	Host    string `json:"host"`
	Players int    `json:"players"`
}

// AvailableGamesPayload lists joinable games
type AvailableGamesPayload struct {
	Games []GameListing `json:"games"`
}

// SubmitMovePayload is the inbound submit_move payload
type SubmitMovePayload struct {
	GameID      string `json:"gameId"`
	PlayerID    string `json:"playerId"`
	AttackType  string `json:"attackType"`
	DefenseType string `json:"defenseType"`
}

// LeaveGamePayload is the inbound leave_game payload
type LeaveGamePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// AttackAnimationPayload describes one resolved attack for client playback
type AttackAnimationPayload struct {
	AttackerID    string             `json:"attackerId"`
	DefenderID    string             `json:"defenderId"`
	AttackType    model.Move         `json:"attackType"`
	DefenseType   model.Move         `json:"defenseType"`
	Effectiveness effectiveness.Tier `json:"effectiveness"`
	Damage        int                `json:"damage"`
}

// GameOverPayload announces the battle outcome
type GameOverPayload struct {
	WinnerID string `json:"winnerId"`
	Draw     bool   `json:"draw"`
}

// ErrorPayload is sent only to the requesting connection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes on the error event
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeGameNotFound   = "GAME_NOT_FOUND"
	CodeGameFull       = "GAME_FULL"
	CodePlayerNotFound = "PLAYER_NOT_FOUND"
	CodeNotYourTurn    = "NOT_YOUR_TURN"
	CodeInvalidMove    = "INVALID_MOVE"
	CodeInvalidState   = "INVALID_STATE"
	CodeInternalError  = "INTERNAL_ERROR"
)

// NewEnvelope marshals a payload into an Envelope
func NewEnvelope(event EventType, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Payload: data}, nil
}
