package policy

import "briscola-game/internal/shared"

// Tier1 discards cheap cards and wins with the cheapest plain card it can,
// spending trump only when the table is worth at least trumpStakes points.
type Tier1 struct{}

const trumpStakes = 5

func (Tier1) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	mustHaveCards(hand)
	discard := func(c shared.Card) cost {
		return cost{c.Points(), flag(c.IsTrump(trump)), c.Rank()}
	}
	if table == nil {
		return cheapestNonTrump(hand, trump, discard)
	}

	winning := winners(hand, *table, trump)
	if len(winning) > 0 {
		plain := filter(hand, winning, func(c shared.Card) bool { return !c.IsTrump(trump) })
		if len(plain) > 0 {
			return cheapest(hand, plain, winCost)
		}
		if table.Points() >= trumpStakes {
			return cheapest(hand, winning, winCost)
		}
	}
	return cheapestNonTrump(hand, trump, discard)
}

// Tier2 avoids leading trump, refuses to spend a high plain card on an empty
// trick and weighs trump spending against the stakes and the cards left.
type Tier2 struct{}

func (Tier2) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	mustHaveCards(hand)
	if table == nil {
		return cheapestNonTrump(hand, trump, func(c shared.Card) cost {
			return cost{flag(c.IsTrump(trump)), c.Points(), c.Rank()}
		})
	}

	discard := func(c shared.Card) cost {
		return cost{c.Points(), flag(c.IsTrump(trump)), c.Rank()}
	}
	stakes := table.Points()
	winning := winners(hand, *table, trump)
	if len(winning) > 0 {
		plain := filter(hand, winning, func(c shared.Card) bool { return !c.IsTrump(trump) })
		if len(plain) > 0 {
			choice := cheapest(hand, plain, winCost)
			if stakes == 0 && hand[choice].Points() >= 10 {
				return cheapestNonTrump(hand, trump, discard)
			}
			return choice
		}

		trumps := filter(hand, winning, func(c shared.Card) bool { return c.IsTrump(trump) })
		choice := cheapest(hand, trumps, func(c shared.Card) cost {
			return cost{c.Rank(), c.Points()}
		})
		if spendTrump(stakes, hand[choice], len(hand)) {
			return choice
		}
	}
	return cheapestNonTrump(hand, trump, discard)
}

// spendTrump decides whether a trump response is worth it for Tier2.
func spendTrump(stakes int, card shared.Card, handSize int) bool {
	threshold := trumpStakes
	if handSize <= 2 {
		threshold = 2
	}
	if card.Points() >= 10 {
		threshold += 2
	}
	if stakes >= threshold {
		return true
	}
	return handSize <= 2 && card.Points() <= 2 && stakes > 0
}

// Tier3 treats aces and threes ("load" cards) as the most precious: it avoids
// leading or discarding them and only wins with one against a plain lead.
type Tier3 struct{}

func (Tier3) Choose(hand []shared.Card, table *shared.Card, trump shared.Suit) int {
	mustHaveCards(hand)
	if table == nil {
		return cheapestNonTrump(hand, trump, func(c shared.Card) cost {
			return cost{flag(c.IsTrump(trump)), flag(c.IsLoad()), c.Points(), c.Rank()}
		})
	}

	winning := winners(hand, *table, trump)
	if len(winning) > 0 {
		cheap := filter(hand, winning, func(c shared.Card) bool { return !c.IsTrump(trump) && !c.IsLoad() })
		if len(cheap) > 0 {
			return cheapest(hand, cheap, winCost)
		}

		loads := filter(hand, winning, func(c shared.Card) bool { return !c.IsTrump(trump) && c.IsLoad() })
		if len(loads) > 0 && !table.IsTrump(trump) {
			return cheapest(hand, loads, winCost)
		}

		trumps := filter(hand, winning, func(c shared.Card) bool { return c.IsTrump(trump) && !c.IsLoad() })
		if len(trumps) > 0 && table.Points() >= trumpStakes {
			return cheapest(hand, trumps, winCost)
		}
	}
	return cheapestNonTrump(hand, trump, func(c shared.Card) cost {
		return cost{flag(c.IsLoad()), c.Points(), flag(c.IsTrump(trump)), c.Rank()}
	})
}
