// Package policy holds the decision policies that pick which card to play.
//
// Every policy receives only the hand, the card waiting on the table (nil when
// leading) and the trump suit, and returns an index into the hand. Policies never
// hold a reference to the match that calls them.
package policy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"briscola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Policy is implemented by every opponent strategy.
type Policy interface {
	// Choose returns the index of the card to play. hand must not be empty.
	Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int
}

// Level names one of the built-in policies.
type Level string

const (
	LevelRandom Level = "random"
	LevelTier1  Level = "rule_based"
	LevelTier2  Level = "rule_based_v2"
	LevelTier3  Level = "rule_based_v3"
)

// Levels lists the built-in policies in increasing order of sophistication.
var Levels = []Level{LevelRandom, LevelTier1, LevelTier2, LevelTier3}

var (
	ErrEmptyHand    = errors.New("policy called with an empty hand")
	ErrUnknownLevel = errors.New("unknown policy level")
)

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// New creates the policy for the given level. rng is only used by the random policy.
func New(level Level, rng *rand.Rand) (Policy, error) {
	switch level {
	case LevelRandom:
		return NewRandom(rng), nil
	case LevelTier1:
		return Tier1{}, nil
	case LevelTier2:
		return Tier2{}, nil
	case LevelTier3:
		return Tier3{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, string(level))
	}
}

func mustHaveCards(hand []shared.Card) {
	if len(hand) == 0 {
		log.Panicf("Error: %v", ErrEmptyHand)
	}
}

// Random picks uniformly among the cards in hand.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a random policy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	mustHaveCards(hand)
	return r.rng.IntN(len(hand))
}
