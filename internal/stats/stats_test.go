package stats

import (
	"context"
	"os"
	"testing"

	"briscola-game/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilTrackerIsNoop(t *testing.T) {
	var tr *Tracker
	ctx := context.Background()
	assert.NoError(t, tr.Record(ctx, "random", game.Win))
	tally, err := tr.Summary(ctx, "random")
	require.NoError(t, err)
	assert.Zero(t, tally.Total())
	assert.NoError(t, tr.Close())
}

func TestTrackerAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	tr, err := New(ctx, addr)
	require.NoError(t, err)
	defer tr.Close()

	const opponent = "test_opponent"
	require.NoError(t, tr.rdb.Del(ctx, key(opponent)).Err())
	defer tr.rdb.Del(ctx, key(opponent))

	for _, o := range []game.Outcome{game.Win, game.Win, game.Loss, game.Draw} {
		require.NoError(t, tr.Record(ctx, opponent, o))
	}
	tally, err := tr.Summary(ctx, opponent)
	require.NoError(t, err)
	assert.Equal(t, game.Tally{Win: 2, Loss: 1, Draw: 1}, tally)
}

func TestNewFailsWithoutServer(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}
