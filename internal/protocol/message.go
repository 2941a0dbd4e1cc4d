package protocol

import (
	"encoding/json"

	"briscola-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // e.g. "new_match", "play_card"
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, decoded per type
}

// Message types.
const (
	TypeNewMatch    = "new_match"
	TypePlayCard    = "play_card"
	TypePing        = "ping"
	TypePong        = "pong"
	TypeMatchStart  = "match_start"
	TypeState       = "state"
	TypeTrickEnd    = "trick_end"
	TypeInvalidMove = "invalid_move"
	TypeMatchOver   = "match_over"
	TypeError       = "error"
)

// --- Client -> Server Payload Structs ---

type NewMatchPayload struct {
	Name     string `json:"name"`
	Opponent string `json:"opponent,omitempty"` // Policy level or learned:<difficulty>; server default when empty
}

type PlayCardPayload struct {
	Index int `json:"index"` // Position in the player's hand
}

// --- Server -> Client Payload Structs ---

type MatchStartPayload struct {
	MatchID   string      `json:"match_id"`
	Trump     shared.Suit `json:"trump"`
	TrumpCard shared.Card `json:"trump_card"`
	Opponent  string      `json:"opponent"`
	Leader    string      `json:"leader"`
}

type StatePayload struct {
	Hand           []shared.Card `json:"hand"`
	TableCard      *shared.Card  `json:"table_card"`
	Trump          shared.Suit   `json:"trump"`
	AgentPoints    int           `json:"agent_points"`
	OpponentPoints int           `json:"opponent_points"`
	Step           int           `json:"step"`
	DeckLeft       int           `json:"deck_left"`
	YourTurn       bool          `json:"your_turn"`
}

type TrickEndPayload struct {
	First  shared.Card `json:"first"`
	Second shared.Card `json:"second"`
	Leader string      `json:"leader"`
	Winner string      `json:"winner"`
	Points int         `json:"points"`
}

type InvalidMovePayload struct {
	Index  int     `json:"index"`
	Reward float64 `json:"reward"`
}

type MatchOverPayload struct {
	AgentPoints    int    `json:"agent_points"`
	OpponentPoints int    `json:"opponent_points"`
	Outcome        string `json:"outcome"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
