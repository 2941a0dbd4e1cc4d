package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"briscola-game/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, action int, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(status)
		case "/act":
			assert.Equal(t, http.MethodPost, r.Method)
			var req actRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.State, game.StateDim)
			assert.Equal(t, Hard, req.Difficulty)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			resp := actResponse{Action: action}
			if status != http.StatusOK {
				resp.Error = "model not loaded"
			}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAct(t *testing.T) {
	srv := newService(t, 2, http.StatusOK)
	c := NewClient(srv.URL+"/", Hard)

	action, err := c.Act(context.Background(), make([]float32, game.StateDim))
	require.NoError(t, err)
	assert.Equal(t, 2, action)

	scores, err := c.Score(context.Background(), make([]float32, game.StateDim))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 1}, scores)

	assert.NoError(t, c.Health(context.Background()))
}

func TestActRejectsBadState(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", Medium)
	_, err := c.Act(context.Background(), make([]float32, 10))
	assert.ErrorIs(t, err, ErrBadState)
}

func TestServiceErrors(t *testing.T) {
	srv := newService(t, 0, http.StatusServiceUnavailable)
	c := NewClient(srv.URL, Hard)

	_, err := c.Act(context.Background(), make([]float32, game.StateDim))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Error(t, c.Health(context.Background()))
}

func TestLearnedAgentOverHTTP(t *testing.T) {
	srv := newService(t, 1, http.StatusOK)
	agent := game.LearnedAgent{Scorer: NewClient(srv.URL, Hard)}

	res, err := game.Play(context.Background(), game.NewSeededMatch(nil, 4), agent)
	require.NoError(t, err)
	assert.Equal(t, game.MaxTricks, res.Steps)
}

func TestGatewayErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>\n"))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, Medium).Act(context.Background(), make([]float32, game.StateDim))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "Bad Gateway")
	assert.NotContains(t, err.Error(), "decode")
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	d, err = ParseDifficulty("medium")
	require.NoError(t, err)
	assert.Equal(t, Medium, d)

	_, err = ParseDifficulty("easy")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}
