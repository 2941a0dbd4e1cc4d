package policy

import "briscola-game/internal/shared"

// cost is compared lexicographically; the candidate with the smallest cost is played.
type cost []int

func (a cost) less(b cost) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type costFunc func(shared.Card) cost

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// cheapest returns the candidate index with the lowest cost. On ties the
// earliest candidate wins. candidates must not be empty.
func cheapest(hand []shared.Card, candidates []int, fn costFunc) int {
	best := candidates[0]
	bestCost := fn(hand[best])
	for _, i := range candidates[1:] {
		if c := fn(hand[i]); c.less(bestCost) {
			best, bestCost = i, c
		}
	}
	return best
}

func allIndices(hand []shared.Card) []int {
	out := make([]int, len(hand))
	for i := range hand {
		out[i] = i
	}
	return out
}

func filter(hand []shared.Card, candidates []int, keep func(shared.Card) bool) []int {
	var out []int
	for _, i := range candidates {
		if keep(hand[i]) {
			out = append(out, i)
		}
	}
	return out
}

// winners returns the indices of the cards that would take the trick led by table.
func winners(hand []shared.Card, table shared.Card, trump shared.Suit) []int {
	return filter(hand, allIndices(hand), func(c shared.Card) bool {
		return shared.Beats(c, table, trump)
	})
}

// cheapestNonTrump ranks the non-trump cards by fn, falling back to the whole
// hand when only trump is left. Used for leads and discards by every tier.
func cheapestNonTrump(hand []shared.Card, trump shared.Suit, fn costFunc) int {
	all := allIndices(hand)
	if plain := filter(hand, all, func(c shared.Card) bool { return !c.IsTrump(trump) }); len(plain) > 0 {
		return cheapest(hand, plain, fn)
	}
	return cheapest(hand, all, fn)
}

// winCost prefers the cheapest, then weakest, winning card.
func winCost(c shared.Card) cost {
	return cost{c.Points(), c.Rank()}
}
