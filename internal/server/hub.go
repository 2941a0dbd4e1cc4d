package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"time"

	"briscola-game/internal/database"
	"briscola-game/internal/game"
	"briscola-game/internal/inference"
	"briscola-game/internal/policy"
	"briscola-game/internal/protocol"

	log "github.com/sirupsen/logrus"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// ResultStore persists finished matches.
type ResultStore interface {
	Insert(result database.MatchResult) error
}

// Recorder counts outcomes per opponent.
type Recorder interface {
	Record(ctx context.Context, opponent string, outcome game.Outcome) error
}

// Hub manages WebSocket clients and their play sessions.
type Hub struct {
	clients         map[*Client]bool
	sessions        map[*Client]*Session
	processMessage  chan clientMessage
	register        chan *Client
	unregister      chan *Client
	store           ResultStore
	recorder        Recorder
	defaultOpponent policy.Level
	scorers         ScorerFactory
	rng             *rand.Rand
}

// NewHub creates a Hub. store, recorder and scorers may be nil; without
// scorers only the built-in policies can be chosen as opponents.
func NewHub(store ResultStore, recorder Recorder, defaultOpponent policy.Level, scorers ScorerFactory) *Hub {
	seed := uint64(time.Now().UnixNano())
	return &Hub{
		clients:         make(map[*Client]bool),
		sessions:        make(map[*Client]*Session),
		processMessage:  make(chan clientMessage),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		store:           store,
		recorder:        recorder,
		defaultOpponent: defaultOpponent,
		scorers:         scorers,
		rng:             rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client %s connected", client.ID)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			if s, ok := h.sessions[client]; ok && !s.Match.IsTerminal() {
				log.Printf("Client %s (%s) left match %s unfinished.", client.ID, client.Name, s.Match.ID)
			}
			delete(h.sessions, client)
			delete(h.clients, client)
			close(client.send)
			log.Printf("Client %s (%s) disconnected", client.ID, client.Name)

		case clientMsg := <-h.processMessage:
			if !h.clients[clientMsg.client] {
				continue // Already unregistered, send channel is closed
			}
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeNewMatch:
		h.handleNewMatch(client, msg)
	case protocol.TypePlayCard:
		h.handlePlayCard(client, msg)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendToClient(client, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleNewMatch starts (or restarts) a match for the client.
func (h *Hub) handleNewMatch(client *Client, msg protocol.Message) {
	var payload protocol.NewMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling new_match payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid new_match message format.")
		return
	}
	if payload.Name == "" {
		payload.Name = client.Name
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	opponent := string(h.defaultOpponent)
	if payload.Opponent != "" {
		opponent = payload.Opponent
	}

	seed := h.rng.Uint64()
	session, err := newSession(payload.Name, opponent, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		h.scorers,
		func(m []byte) { h.sendToClient(client, m) },
		h.finishMatch)
	switch {
	case err == nil:
	case errors.Is(err, ErrLearnedDisabled):
		h.sendErrorToClient(client, "Learned opponents are not available.")
		return
	case errors.Is(err, policy.ErrUnknownLevel), errors.Is(err, inference.ErrUnknownDifficulty):
		h.sendErrorToClient(client, "Unknown opponent.")
		return
	default:
		log.Printf("Client %s: cannot create session: %v", client.ID, err)
		h.sendErrorToClient(client, "Cannot create match.")
		return
	}

	client.Name = payload.Name
	h.sessions[client] = session
	session.Start()
}

// handlePlayCard forwards a play to the client's session.
func (h *Hub) handlePlayCard(client *Client, msg protocol.Message) {
	session, ok := h.sessions[client]
	if !ok {
		h.sendErrorToClient(client, "No active match.")
		return
	}
	var payload protocol.PlayCardPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling play_card payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid play_card message.")
		return
	}
	session.Play(payload.Index)
}

// recordTimeout bounds one stats update.
const recordTimeout = 2 * time.Second

// finishMatch stores and counts a finished match. Stats are recorded off the
// Run loop so a slow Redis never stalls other clients.
func (h *Hub) finishMatch(result database.MatchResult) {
	if h.store != nil {
		if err := h.store.Insert(result); err != nil {
			log.Printf("Match %s: failed to store result: %v", result.ID, err)
		}
	}
	if h.recorder != nil {
		go h.record(result)
	}
}

func (h *Hub) record(result database.MatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := h.recorder.Record(ctx, result.Opponent, game.Outcome(result.Outcome)); err != nil {
		log.Printf("Match %s: failed to record stats: %v", result.ID, err)
	}
}

// sendToClient queues a message without blocking the hub.
func (h *Hub) sendToClient(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full), dropping connection.", client.ID)
		go func() { h.unregister <- client }()
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendToClient(client, msgBytes)
}
