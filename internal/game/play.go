package game

import (
	"context"
	"errors"
	"fmt"
)

// Outcome is the result of a finished match from the agent's side.
type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Draw Outcome = "draw"
)

// maxRejections bounds consecutive out-of-range actions before Play gives up.
const maxRejections = 10

var ErrAgentStuck = errors.New("agent keeps choosing invalid actions")

// Result summarizes one played match.
type Result struct {
	Outcome        Outcome
	AgentPoints    int
	OpponentPoints int
	Steps          int
	Reward         float64
}

// OutcomeOf compares final points. Unlike the terminal reward, a tie is a draw.
func OutcomeOf(agentPoints, opponentPoints int) Outcome {
	switch {
	case agentPoints > opponentPoints:
		return Win
	case agentPoints < opponentPoints:
		return Loss
	default:
		return Draw
	}
}

// Play resets m and lets agent play it to the end.
func Play(ctx context.Context, m *Match, agent Agent) (Result, error) {
	m.Reset()
	var res Result
	rejected := 0
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		action, err := agent.Act(ctx, m)
		if err != nil {
			return res, fmt.Errorf("match %s step %d: %w", m.ID, m.StepCount, err)
		}
		step := m.Step(action)
		res.Reward += step.Reward
		if step.Rejected {
			rejected++
			if rejected >= maxRejections {
				return res, fmt.Errorf("match %s: %w", m.ID, ErrAgentStuck)
			}
			continue
		}
		rejected = 0
		res.Steps++
		if step.Terminated || step.Truncated {
			break
		}
	}
	res.AgentPoints = m.AgentPoints
	res.OpponentPoints = m.OpponentPoints
	res.Outcome = OutcomeOf(m.AgentPoints, m.OpponentPoints)
	return res, nil
}

// Tally counts match outcomes.
type Tally struct {
	Win  int `json:"win"`
	Loss int `json:"loss"`
	Draw int `json:"draw"`
}

// Add counts one outcome.
func (t *Tally) Add(o Outcome) {
	switch o {
	case Win:
		t.Win++
	case Loss:
		t.Loss++
	case Draw:
		t.Draw++
	}
}

// Total returns the number of counted matches.
func (t Tally) Total() int { return t.Win + t.Loss + t.Draw }

// WinRate returns the percentage of matches won.
func (t Tally) WinRate() float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(t.Win) / float64(t.Total()) * 100
}

// Evaluate plays episodes matches with agent against the match's opponent.
func Evaluate(ctx context.Context, m *Match, agent Agent, episodes int) (Tally, error) {
	var t Tally
	for i := 0; i < episodes; i++ {
		res, err := Play(ctx, m, agent)
		if err != nil {
			return t, err
		}
		t.Add(res.Outcome)
	}
	return t, nil
}
