// Package inference talks to a remote learned-policy service.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"briscola-game/internal/game"
	"briscola-game/internal/policy"
)

// Difficulty selects which trained model the service answers with.
type Difficulty string

const (
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrBadState          = errors.New("state has the wrong length")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

type actRequest struct {
	State      []float32  `json:"state"`
	Difficulty Difficulty `json:"difficulty"`
}

type actResponse struct {
	Action int    `json:"action"`
	Error  string `json:"error,omitempty"`
}

// Client implements policy.Scorer against the service's /act endpoint.
type Client struct {
	BaseURL    string
	Difficulty Difficulty
	HTTP       *http.Client
}

var _ policy.Scorer = (*Client)(nil)

// NewClient returns a client with a bounded request timeout.
func NewClient(baseURL string, difficulty Difficulty) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Difficulty: difficulty,
		HTTP:       &http.Client{Timeout: 5 * time.Second},
	}
}

// Act returns the action the remote model picks for state.
func (c *Client) Act(ctx context.Context, state []float32) (int, error) {
	if len(state) != game.StateDim {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrBadState, len(state), game.StateDim)
	}
	body, err := json.Marshal(actRequest{State: state, Difficulty: c.Difficulty})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/act", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post /act: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var out actResponse
		if json.Unmarshal(body, &out) == nil && out.Error != "" {
			return 0, fmt.Errorf("/act returned %d: %s", resp.StatusCode, out.Error)
		}
		return 0, fmt.Errorf("/act returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out actResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode /act response: %w", err)
	}
	return out.Action, nil
}

// Score turns the chosen action into a one-hot score vector so the caller can
// apply its own validity mask.
func (c *Client) Score(ctx context.Context, state []float32) ([]float32, error) {
	action, err := c.Act(ctx, state)
	if err != nil {
		return nil, err
	}
	scores := make([]float32, policy.NumActions)
	if action >= 0 && action < len(scores) {
		scores[action] = 1
	}
	return scores, nil
}

// Health checks that the service is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("get /health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("/health returned %d", resp.StatusCode)
	}
	return nil
}
