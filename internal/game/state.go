package game

import (
	"briscola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

const (
	// StateDim is the length of every encoded state.
	StateDim = 2 + (shared.HandSize+1)*cardDim
	cardDim  = 2 + shared.NumSuits
)

// Encode projects the match onto the agent's normalized observation.
func (m *Match) Encode() []float32 {
	return EncodeState(m.StepCount, m.AgentPoints, m.AgentHand, m.TableCard, m.Trump)
}

// EncodeState builds the observation vector:
//
//	[0]      step / 20
//	[1]      agent points / 120
//	[2:20]   three hand slots, 6 values each, zero padded
//	[20:26]  table card, zero when empty
//
// Each card slot is name index / 9, a trump flag and a one-hot suit.
func EncodeState(step, agentPoints int, hand []shared.Card, table *shared.Card, trump shared.Suit) []float32 {
	state := make([]float32, 0, StateDim)
	state = append(state,
		float32(step)/float32(MaxTricks),
		float32(agentPoints)/float32(shared.TotalPoints),
	)

	for i := 0; i < shared.HandSize; i++ {
		if i < len(hand) {
			state = appendCard(state, hand[i], trump)
		} else {
			state = append(state, make([]float32, cardDim)...)
		}
	}
	if table != nil {
		state = appendCard(state, *table, trump)
	} else {
		state = append(state, make([]float32, cardDim)...)
	}

	if len(state) != StateDim {
		log.Panicf("Error: state length is %d, expected %d", len(state), StateDim)
	}
	return state
}

func appendCard(state []float32, c shared.Card, trump shared.Suit) []float32 {
	var suit [shared.NumSuits]float32
	suit[c.Suit] = 1
	var isTrump float32
	if c.IsTrump(trump) {
		isTrump = 1
	}
	state = append(state, float32(c.Name)/float32(shared.NumNames-1), isTrump)
	return append(state, suit[:]...)
}
