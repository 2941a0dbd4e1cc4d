// Package stats keeps per-opponent outcome counters in Redis.
package stats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"briscola-game/internal/game"
)

const keyPrefix = "briscola:stats:"

// Tracker records outcomes of harness matches. A nil *Tracker ignores everything.
type Tracker struct {
	rdb *redis.Client
}

// New connects to Redis at addr and checks the connection.
func New(ctx context.Context, addr string) (*Tracker, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Tracker{rdb: rdb}, nil
}

func key(opponent string) string { return keyPrefix + opponent }

// Record counts one outcome against opponent.
func (t *Tracker) Record(ctx context.Context, opponent string, outcome game.Outcome) error {
	if t == nil {
		return nil
	}
	return t.rdb.HIncrBy(ctx, key(opponent), string(outcome), 1).Err()
}

// Summary returns the counters for opponent.
func (t *Tracker) Summary(ctx context.Context, opponent string) (game.Tally, error) {
	var tally game.Tally
	if t == nil {
		return tally, nil
	}
	fields, err := t.rdb.HGetAll(ctx, key(opponent)).Result()
	if err != nil {
		return tally, err
	}
	for field, raw := range fields {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return tally, fmt.Errorf("counter %s: %w", field, err)
		}
		switch game.Outcome(field) {
		case game.Win:
			tally.Win = n
		case game.Loss:
			tally.Loss = n
		case game.Draw:
			tally.Draw = n
		}
	}
	return tally, nil
}

// Close releases the Redis connection.
func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	return t.rdb.Close()
}
