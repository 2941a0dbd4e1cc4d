package game

import (
	"testing"

	"briscola-game/internal/policy"
	"briscola-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPolicy plays the first card and remembers what it was shown.
type recordingPolicy struct {
	leads     int
	responses int
	trumps    []shared.Suit
}

func (p *recordingPolicy) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	if table == nil {
		p.leads++
	} else {
		p.responses++
	}
	p.trumps = append(p.trumps, trump)
	// Scribbling on the hand must not reach the match.
	hand[0] = shared.Card{Name: shared.Two, Suit: shared.Batons}
	return 0
}

func cardCount(m *Match) int {
	n := m.Deck.Len() + len(m.AgentHand) + len(m.OpponentHand)
	if m.TableCard != nil {
		n++
	}
	return n
}

func TestNewMatchDefaults(t *testing.T) {
	m := NewMatch(nil, nil)
	assert.Equal(t, AwaitingReset, m.Phase)
	assert.IsType(t, &policy.Random{}, m.Opponent())

	m.ChangeOpponent(policy.Tier2{})
	assert.Equal(t, policy.Tier2{}, m.Opponent())
}

func TestResetDeals(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		m := NewSeededMatch(nil, seed)
		state, info := m.Reset()

		require.Len(t, state, StateDim)
		assert.Empty(t, info)
		assert.NotEmpty(t, m.ID)
		assert.Len(t, m.AgentHand, shared.HandSize)
		assert.Equal(t, shared.DeckSize-2*shared.HandSize, m.Deck.Len())
		assert.Equal(t, m.TrumpCard, m.Deck.Cards[m.Deck.Len()-1], "trump card is drawn last")
		assert.Equal(t, m.TrumpCard.Suit, m.Trump)
		assert.Zero(t, m.AgentPoints)
		assert.Zero(t, m.OpponentPoints)
		assert.Zero(t, m.StepCount)

		if m.Leader == shared.Opponent {
			require.NotNil(t, m.TableCard)
			assert.Len(t, m.OpponentHand, shared.HandSize-1)
			assert.Equal(t, AwaitingResponse, m.Phase)
		} else {
			assert.Nil(t, m.TableCard)
			assert.Len(t, m.OpponentHand, shared.HandSize)
			assert.Equal(t, AwaitingLead, m.Phase)
		}
		assert.Equal(t, shared.DeckSize, cardCount(m))

		for i, v := range state {
			assert.True(t, v >= 0 && v <= 1, "state[%d] = %f", i, v)
		}
	}
}

func TestResetIsSeeded(t *testing.T) {
	a := NewSeededMatch(nil, 99)
	b := NewSeededMatch(nil, 99)
	sa, _ := a.Reset()
	sb, _ := b.Reset()

	assert.Equal(t, sa, sb)
	assert.Equal(t, a.AgentHand, b.AgentHand)
	assert.Equal(t, a.OpponentHand, b.OpponentHand)
	assert.Equal(t, a.TrumpCard, b.TrumpCard)
	assert.Equal(t, a.Leader, b.Leader)
	assert.Equal(t, a.Deck.Cards, b.Deck.Cards)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBothSidesLeadAcrossSeeds(t *testing.T) {
	leaders := make(map[shared.Side]int)
	for seed := uint64(0); seed < 100; seed++ {
		m := NewSeededMatch(nil, seed)
		m.Reset()
		leaders[m.Leader]++
	}
	assert.Positive(t, leaders[shared.Agent])
	assert.Positive(t, leaders[shared.Opponent])
}

func TestInvalidActionChangesNothing(t *testing.T) {
	m := NewSeededMatch(nil, 3)
	before, _ := m.Reset()
	hand := m.AgentHand.Clone()
	table := m.TableCard
	deckLen := m.Deck.Len()

	for _, action := range []int{-1, 3, 7} {
		res := m.Step(action)
		assert.True(t, res.Rejected)
		assert.Equal(t, InvalidActionPenalty, res.Reward)
		assert.False(t, res.Terminated)
		assert.False(t, res.Truncated)
		assert.Equal(t, before, res.State)
	}
	assert.Equal(t, hand, m.AgentHand)
	assert.Equal(t, table, m.TableCard)
	assert.Equal(t, deckLen, m.Deck.Len())
	assert.Zero(t, m.StepCount)
}

func TestFullMatch(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		m := NewSeededMatch(nil, seed)
		m.Reset()

		steps := 0
		total := 0.0
		var last StepResult
		for !m.IsTerminal() {
			require.Less(t, steps, MaxTricks, "match must end within %d steps", MaxTricks)
			last = m.Step(0)
			require.False(t, last.Rejected)
			require.NotNil(t, m.LastTrick)
			steps++
			total += last.Reward
			assert.Equal(t, steps, m.StepCount)
			if !last.Terminated {
				assert.Equal(t, shared.DeckSize-2*steps, cardCount(m))
				assert.Equal(t, float64(m.LastTrick.Points), abs(last.Reward))
			}
		}

		assert.Equal(t, MaxTricks, steps)
		assert.True(t, last.Terminated)
		assert.Equal(t, Terminal, m.Phase)
		assert.Zero(t, m.Deck.Len())
		assert.Empty(t, m.AgentHand)
		assert.Empty(t, m.OpponentHand)
		assert.Nil(t, m.TableCard)
		assert.Equal(t, shared.TotalPoints, m.AgentPoints+m.OpponentPoints)

		diff := float64(m.AgentPoints - m.OpponentPoints)
		if m.AgentPoints > m.OpponentPoints {
			assert.Equal(t, diff+TerminalBonus, total)
		} else {
			assert.Equal(t, diff-TerminalBonus, total)
		}

		res := m.Step(0)
		assert.True(t, res.Rejected, "no cards left after the last trick")
	}
}

func TestOpponentSeesCopiesOnly(t *testing.T) {
	spy := &recordingPolicy{}
	m := NewSeededMatch(spy, 11)
	m.Reset()
	for !m.IsTerminal() {
		m.Step(0)
	}
	assert.Equal(t, MaxTricks, spy.leads+spy.responses)
	assert.Positive(t, spy.responses)
	for _, trump := range spy.trumps {
		assert.Equal(t, m.Trump, trump)
	}
	assert.Equal(t, shared.TotalPoints, m.AgentPoints+m.OpponentPoints)
}

func TestStepWinnerLeadsAndDrawsFirst(t *testing.T) {
	m := NewSeededMatch(policy.Tier1{}, 5)
	m.Reset()
	for !m.IsTerminal() {
		m.Step(0)
		if m.IsTerminal() {
			break
		}
		trick := m.LastTrick
		require.NotNil(t, trick)
		assert.Equal(t, trick.Winner, m.Leader)
		if trick.Winner == shared.Opponent {
			assert.NotNil(t, m.TableCard, "opponent leads before Step returns")
		} else {
			assert.Nil(t, m.TableCard)
		}
		if trick.FirstSide == shared.Agent {
			want := trick.Winner
			if shared.Compare(trick.First, trick.Second, m.Trump) == shared.WinnerIsFirst {
				assert.Equal(t, shared.Agent, want)
			} else {
				assert.Equal(t, shared.Opponent, want)
			}
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
