package game

import (
	"context"
	"fmt"
	"time"

	"briscola-game/internal/policy"
	"briscola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Agent drives the agent seat of a match.
type Agent interface {
	Act(ctx context.Context, m *Match) (int, error)
}

// PolicyAgent seats a card-playing policy in the agent's chair.
type PolicyAgent struct {
	Policy policy.Policy
}

func (a PolicyAgent) Act(_ context.Context, m *Match) (int, error) {
	return a.Policy.Choose(m.AgentHand.Clone(), m.TableCard, m.Trump), nil
}

// LearnedAgent scores the encoded state with an external model and plays the
// best slot that holds a card.
type LearnedAgent struct {
	Scorer policy.Scorer
}

func (a LearnedAgent) Act(ctx context.Context, m *Match) (int, error) {
	scores, err := a.Scorer.Score(ctx, m.Encode())
	if err != nil {
		return 0, fmt.Errorf("score state: %w", err)
	}
	return policy.MaskedArgmax(scores, len(m.AgentHand)), nil
}

// LearnedOpponent seats an external scorer in the opponent chair. It sees what
// a human opponent would: its own hand, the table card, the trump suit, the
// trick count and its own points, encoded the same way as the agent's
// observation. Any scoring error falls back to Fallback.
type LearnedOpponent struct {
	Scorer   policy.Scorer
	Fallback policy.Policy
	// Progress reports the trick count and the opponent's points.
	Progress func() (step, points int)
	// Timeout bounds each scoring call; zero means no extra bound.
	Timeout time.Duration
}

// OpponentProgress reads the opponent-side counters of m for a LearnedOpponent.
func OpponentProgress(m *Match) func() (int, int) {
	return func() (int, int) { return m.StepCount, m.OpponentPoints }
}

func (o *LearnedOpponent) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	if len(hand) == 0 {
		log.Panicf("Error: %v", policy.ErrEmptyHand)
	}
	var step, points int
	if o.Progress != nil {
		step, points = o.Progress()
	}

	ctx := context.Background()
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	scores, err := o.Scorer.Score(ctx, EncodeState(step, points, hand, table, trump))
	if err != nil {
		log.Warnf("Learned opponent unavailable at step %d, falling back: %v", step, err)
		return o.Fallback.Choose(hand, table, trump)
	}
	return policy.MaskedArgmax(scores, len(hand))
}
