package game

import (
	"context"
	"errors"
	"testing"

	"briscola-game/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedScorer struct {
	scores []float32
	err    error
	calls  int
	last   []float32
}

func (s *fixedScorer) Score(_ context.Context, state []float32) ([]float32, error) {
	s.calls++
	s.last = state
	if len(state) != StateDim {
		return nil, errors.New("bad state")
	}
	return s.scores, s.err
}

type stubbornAgent struct{}

func (stubbornAgent) Act(context.Context, *Match) (int, error) { return 5, nil }

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, Win, OutcomeOf(61, 59))
	assert.Equal(t, Loss, OutcomeOf(59, 61))
	assert.Equal(t, Draw, OutcomeOf(60, 60))
}

func TestPlayWithPolicyAgent(t *testing.T) {
	m := NewSeededMatch(policy.Tier1{}, 8)
	res, err := Play(context.Background(), m, PolicyAgent{Policy: policy.Tier3{}})
	require.NoError(t, err)

	assert.Equal(t, MaxTricks, res.Steps)
	assert.Equal(t, 120, res.AgentPoints+res.OpponentPoints)
	assert.Equal(t, OutcomeOf(res.AgentPoints, res.OpponentPoints), res.Outcome)
	assert.True(t, m.IsTerminal())
}

func TestPlayWithLearnedAgent(t *testing.T) {
	scorer := &fixedScorer{scores: []float32{0, 0, 1}}
	m := NewSeededMatch(nil, 12)
	res, err := Play(context.Background(), m, LearnedAgent{Scorer: scorer})
	require.NoError(t, err)

	// The last slot is masked out once the hand shrinks, so no action is rejected.
	assert.Equal(t, MaxTricks, res.Steps)
	assert.Equal(t, MaxTricks, scorer.calls)
}

func TestPlayScorerError(t *testing.T) {
	boom := errors.New("model offline")
	m := NewSeededMatch(nil, 1)
	_, err := Play(context.Background(), m, LearnedAgent{Scorer: &fixedScorer{err: boom}})
	assert.ErrorIs(t, err, boom)
}

func TestPlayStuckAgent(t *testing.T) {
	m := NewSeededMatch(nil, 1)
	res, err := Play(context.Background(), m, stubbornAgent{})
	assert.ErrorIs(t, err, ErrAgentStuck)
	assert.Equal(t, maxRejections*InvalidActionPenalty, res.Reward)
	assert.Zero(t, res.Steps)
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Play(ctx, NewSeededMatch(nil, 1), PolicyAgent{Policy: policy.Tier1{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTally(t *testing.T) {
	var tally Tally
	assert.Zero(t, tally.WinRate())
	tally.Add(Win)
	tally.Add(Win)
	tally.Add(Loss)
	tally.Add(Draw)
	assert.Equal(t, 4, tally.Total())
	assert.InDelta(t, 50.0, tally.WinRate(), 1e-9)
}

func TestEvaluate(t *testing.T) {
	const episodes = 200
	m := NewSeededMatch(nil, 2024)
	tally, err := Evaluate(context.Background(), m, PolicyAgent{Policy: policy.Tier3{}}, episodes)
	require.NoError(t, err)
	assert.Equal(t, episodes, tally.Total())
	assert.Greater(t, tally.WinRate(), 50.0, "rule based play beats random play")
}
