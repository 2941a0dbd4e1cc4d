package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"briscola-game/internal/database"
	"briscola-game/internal/game"
	"briscola-game/internal/inference"
	"briscola-game/internal/policy"
	"briscola-game/internal/protocol"

	log "github.com/sirupsen/logrus"
)

const (
	// learnedPrefix marks opponents served by the inference service, e.g. "learned:hard".
	learnedPrefix = "learned:"
	// learnedFallback plays whenever the inference service cannot answer.
	learnedFallback = policy.LevelTier3
	// learnedTimeout bounds one opponent decision; the hub waits for it.
	learnedTimeout = 2 * time.Second
)

var ErrLearnedDisabled = errors.New("learned opponents are not configured")

// ScorerFactory returns the scorer for a learned opponent of the given difficulty.
type ScorerFactory func(difficulty inference.Difficulty) policy.Scorer

// InferenceScorers serves learned opponents from the service at baseURL.
// An empty baseURL disables them.
func InferenceScorers(baseURL string) ScorerFactory {
	if baseURL == "" {
		return nil
	}
	return func(d inference.Difficulty) policy.Scorer {
		return inference.NewClient(baseURL, d)
	}
}

// opponentName validates an opponent name and returns its canonical form:
// a policy level or learned:<difficulty>.
func opponentName(name string) (string, error) {
	if raw, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(name)), learnedPrefix); ok {
		d, err := inference.ParseDifficulty(raw)
		if err != nil {
			return "", err
		}
		return learnedPrefix + string(d), nil
	}
	level, err := policy.ParseLevel(name)
	if err != nil {
		return "", err
	}
	return string(level), nil
}

// seatOpponent builds the named opponent and puts it in m.
func seatOpponent(m *game.Match, name string, rng *rand.Rand, scorers ScorerFactory) error {
	if raw, ok := strings.CutPrefix(name, learnedPrefix); ok {
		if scorers == nil {
			return ErrLearnedDisabled
		}
		fallback, err := policy.New(learnedFallback, rng)
		if err != nil {
			return err
		}
		m.ChangeOpponent(&game.LearnedOpponent{
			Scorer:   scorers(inference.Difficulty(raw)),
			Fallback: fallback,
			Progress: game.OpponentProgress(m),
			Timeout:  learnedTimeout,
		})
		return nil
	}
	p, err := policy.New(policy.Level(name), rng)
	if err != nil {
		return err
	}
	m.ChangeOpponent(p)
	return nil
}

// MessageSender delivers an encoded message to the session's player.
type MessageSender func(message []byte)

// Session is one human playing the agent seat against a policy or a learned
// model. Sessions are only touched from the hub's Run loop.
type Session struct {
	Player   string
	Opponent string
	Match    *game.Match

	send  MessageSender
	onEnd func(database.MatchResult)
}

func newSession(player, opponent string, rng *rand.Rand, scorers ScorerFactory, send MessageSender, onEnd func(database.MatchResult)) (*Session, error) {
	name, err := opponentName(opponent)
	if err != nil {
		return nil, err
	}
	m := game.NewMatch(nil, rng)
	if err := seatOpponent(m, name, rng, scorers); err != nil {
		return nil, fmt.Errorf("opponent %s: %w", name, err)
	}
	return &Session{
		Player:   player,
		Opponent: name,
		Match:    m,
		send:     send,
		onEnd:    onEnd,
	}, nil
}

// Start deals a new match and tells the player.
func (s *Session) Start() {
	s.Match.Reset()
	log.WithField("match", s.Match.ID).Printf("Match %s: %s vs %s started, trump %s.", s.Match.ID, s.Player, s.Opponent, s.Match.Trump)

	s.emit(protocol.TypeMatchStart, protocol.MatchStartPayload{
		MatchID:   s.Match.ID,
		Trump:     s.Match.Trump,
		TrumpCard: s.Match.TrumpCard,
		Opponent:  s.Opponent,
		Leader:    s.Match.Leader.String(),
	})
	s.emitState()
}

// Play plays the card at index for the human.
func (s *Session) Play(index int) {
	if s.Match.IsTerminal() {
		s.emit(protocol.TypeError, protocol.ErrorPayload{Message: "Match is over."})
		return
	}

	res := s.Match.Step(index)
	if res.Rejected {
		s.emit(protocol.TypeInvalidMove, protocol.InvalidMovePayload{Index: index, Reward: res.Reward})
		return
	}

	if t := s.Match.LastTrick; t != nil {
		s.emit(protocol.TypeTrickEnd, protocol.TrickEndPayload{
			First:  t.First,
			Second: t.Second,
			Leader: t.FirstSide.String(),
			Winner: t.Winner.String(),
			Points: t.Points,
		})
	}

	if !res.Terminated {
		s.emitState()
		return
	}

	outcome := game.OutcomeOf(s.Match.AgentPoints, s.Match.OpponentPoints)
	s.emit(protocol.TypeMatchOver, protocol.MatchOverPayload{
		AgentPoints:    s.Match.AgentPoints,
		OpponentPoints: s.Match.OpponentPoints,
		Outcome:        string(outcome),
	})
	log.WithField("match", s.Match.ID).Printf("Match %s: over, %s %d - %s %d (%s).",
		s.Match.ID, s.Player, s.Match.AgentPoints, s.Opponent, s.Match.OpponentPoints, outcome)

	if s.onEnd != nil {
		s.onEnd(database.MatchResult{
			ID:             s.Match.ID,
			CreatedAt:      time.Now().UTC().Format(time.RFC3339),
			Player:         s.Player,
			Opponent:       s.Opponent,
			PlayerPoints:   s.Match.AgentPoints,
			OpponentPoints: s.Match.OpponentPoints,
			Outcome:        string(outcome),
		})
	}
}

func (s *Session) emitState() {
	m := s.Match
	s.emit(protocol.TypeState, protocol.StatePayload{
		Hand:           m.AgentHand.Clone(),
		TableCard:      m.TableCard,
		Trump:          m.Trump,
		AgentPoints:    m.AgentPoints,
		OpponentPoints: m.OpponentPoints,
		Step:           m.StepCount,
		DeckLeft:       m.Deck.Len(),
		YourTurn:       !m.IsTerminal(),
	})
}

func (s *Session) emit(msgType string, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("Match %s: error creating %s message: %v", s.Match.ID, msgType, err)
		return
	}
	s.send(msg)
}
