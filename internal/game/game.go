package game

import (
	"math/rand/v2"

	"briscola-game/internal/policy"
	"briscola-game/internal/shared"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Phase represents where the match is in its turn cycle.
type Phase string

const (
	AwaitingReset    Phase = "AwaitingReset"    // No deal yet
	AwaitingLead     Phase = "AwaitingLead"     // Agent must lead
	AwaitingResponse Phase = "AwaitingResponse" // Opponent led, agent must respond
	TrickResolved    Phase = "TrickResolved"    // Transient while scoring and redealing
	Terminal         Phase = "Terminal"         // Deck and both hands are empty
)

const (
	// InvalidActionPenalty is the reward for an action outside the agent's hand.
	InvalidActionPenalty = -10.0
	// TerminalBonus is added on a win and subtracted otherwise (a tie counts as a loss).
	TerminalBonus = 100.0
	// MaxTricks is the number of tricks in a full match.
	MaxTricks = shared.DeckSize / 2
)

// Info is the auxiliary slot returned by Reset and Step. The engine leaves it empty.
type Info map[string]any

// StepResult is returned by Step.
type StepResult struct {
	State      []float32
	Reward     float64
	Terminated bool
	Truncated  bool // never set by the engine
	Info       Info
	Rejected   bool // action index was out of range and nothing changed
}

// Trick records a resolved trick.
type Trick struct {
	First     shared.Card `json:"first"`
	Second    shared.Card `json:"second"`
	FirstSide shared.Side `json:"-"`
	Winner    shared.Side `json:"-"`
	Points    int         `json:"points"`
}

// Match is the two-player state machine. The agent seat is driven by the caller
// of Step; the opponent seat is driven by a policy.
type Match struct {
	ID             string
	Deck           *shared.Deck
	Trump          shared.Suit
	TrumpCard      shared.Card
	AgentHand      shared.Hand
	OpponentHand   shared.Hand
	TableCard      *shared.Card
	AgentPoints    int
	OpponentPoints int
	StepCount      int
	Leader         shared.Side
	Phase          Phase
	LastTrick      *Trick

	opponent policy.Policy
	rng      *rand.Rand
}

// NewMatch creates a match against opponent. rng drives the shuffle and the
// opening coin flip; a nil rng is seeded randomly. A nil opponent plays randomly.
func NewMatch(opponent policy.Policy, rng *rand.Rand) *Match {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := &Match{
		Phase: AwaitingReset,
		rng:   rng,
	}
	m.ChangeOpponent(opponent)
	return m
}

// NewSeededMatch creates a match whose deals are reproducible from seed.
func NewSeededMatch(opponent policy.Policy, seed uint64) *Match {
	return NewMatch(opponent, rand.New(rand.NewPCG(seed, seed)))
}

// ChangeOpponent replaces the opponent policy. nil selects a random opponent.
func (m *Match) ChangeOpponent(opponent policy.Policy) {
	if opponent == nil {
		opponent = policy.NewRandom(m.rng)
	}
	m.opponent = opponent
}

// Opponent returns the policy driving the opponent seat.
func (m *Match) Opponent() policy.Policy { return m.opponent }

// Reset deals a new match and returns the initial encoded state.
func (m *Match) Reset() ([]float32, Info) {
	m.ID = uuid.NewString()
	m.Deck = shared.NewDeck(m.rng)
	m.Deck.Shuffle()

	// The revealed trump card goes under the deck and is drawn last.
	m.TrumpCard = m.Deck.Draw()
	m.Trump = m.TrumpCard.Suit
	m.Deck.PutBack(m.TrumpCard)

	m.AgentHand = make(shared.Hand, 0, shared.HandSize)
	m.OpponentHand = make(shared.Hand, 0, shared.HandSize)
	for i := 0; i < shared.HandSize; i++ {
		m.AgentHand.AddCard(m.Deck.Draw())
	}
	for i := 0; i < shared.HandSize; i++ {
		m.OpponentHand.AddCard(m.Deck.Draw())
	}

	m.AgentPoints = 0
	m.OpponentPoints = 0
	m.StepCount = 0
	m.TableCard = nil
	m.LastTrick = nil
	m.Phase = AwaitingLead

	if m.rng.Float64() < 0.5 {
		m.Leader = shared.Agent
	} else {
		m.Leader = shared.Opponent
	}
	m.logger().Debugf("Match %s: dealt, trump %s (%s), %s leads.", m.ID, m.Trump, m.TrumpCard, m.Leader)

	if m.Leader == shared.Opponent {
		m.opponentLeads()
	}
	return m.Encode(), Info{}
}

// Step plays the agent card at index action and resolves the trick.
func (m *Match) Step(action int) StepResult {
	if !m.AgentHand.Valid(action) {
		m.logger().Debugf("Match %s: rejected action %d (hand size %d).", m.ID, action, len(m.AgentHand))
		return StepResult{State: m.Encode(), Reward: InvalidActionPenalty, Info: Info{}, Rejected: true}
	}

	agentCard := m.AgentHand.RemoveAt(action)

	var first, second shared.Card
	var firstSide shared.Side
	if m.TableCard != nil {
		first, second, firstSide = *m.TableCard, agentCard, shared.Opponent
	} else {
		idx := m.opponent.Choose(m.OpponentHand.Clone(), &agentCard, m.Trump)
		first, second, firstSide = agentCard, m.OpponentHand.RemoveAt(idx), shared.Agent
	}
	m.Phase = TrickResolved

	winner := firstSide
	if shared.Compare(first, second, m.Trump) == shared.WinnerIsSecond {
		winner = firstSide.Other()
	}
	points := shared.TrickPoints(first, second)

	reward := 0.0
	if winner == shared.Agent {
		m.AgentPoints += points
		reward += float64(points)
	} else {
		m.OpponentPoints += points
		reward -= float64(points)
	}
	m.LastTrick = &Trick{First: first, Second: second, FirstSide: firstSide, Winner: winner, Points: points}
	m.logger().Debugf("Match %s: %s vs %s, %s takes %d.", m.ID, first, second, winner, points)

	m.TableCard = nil
	m.Leader = winner

	if m.Deck.Len() > 0 {
		m.handOf(winner).AddCard(m.Deck.Draw())
		m.handOf(winner.Other()).AddCard(m.Deck.Draw())
	}
	m.StepCount++

	if m.Deck.Len() == 0 && len(m.AgentHand) == 0 && len(m.OpponentHand) == 0 {
		m.Phase = Terminal
		if m.AgentPoints > m.OpponentPoints {
			reward += TerminalBonus
		} else {
			reward -= TerminalBonus
		}
		m.logger().Debugf("Match %s: over, agent %d - opponent %d.", m.ID, m.AgentPoints, m.OpponentPoints)
		return StepResult{State: m.Encode(), Reward: reward, Terminated: true, Info: Info{}}
	}

	m.Phase = AwaitingLead
	if m.Leader == shared.Opponent && len(m.OpponentHand) > 0 {
		m.opponentLeads()
	}
	return StepResult{State: m.Encode(), Reward: reward, Info: Info{}}
}

// IsTerminal reports whether the match is over.
func (m *Match) IsTerminal() bool { return m.Phase == Terminal }

// opponentLeads asks the opponent policy for a lead and puts it on the table.
func (m *Match) opponentLeads() {
	idx := m.opponent.Choose(m.OpponentHand.Clone(), nil, m.Trump)
	card := m.OpponentHand.RemoveAt(idx)
	m.TableCard = &card
	m.Phase = AwaitingResponse
}

func (m *Match) handOf(side shared.Side) *shared.Hand {
	if side == shared.Agent {
		return &m.AgentHand
	}
	return &m.OpponentHand
}

func (m *Match) logger() *log.Entry {
	return log.WithField("match", m.ID)
}
