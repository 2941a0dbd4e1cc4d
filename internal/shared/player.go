package shared

import log "github.com/sirupsen/logrus"

// HandSize is the number of cards each side holds while the deck lasts.
const HandSize = 3

// Side identifies one of the two seats of a match.
type Side int

const (
	Agent Side = iota
	Opponent
)

func (s Side) String() string {
	if s == Agent {
		return "agent"
	}
	return "opponent"
}

// Other returns the opposite seat.
func (s Side) Other() Side {
	if s == Agent {
		return Opponent
	}
	return Agent
}

// Hand is the ordered set of cards held by one side.
type Hand []Card

// AddCard appends a drawn card to the hand.
func (h *Hand) AddCard(card Card) {
	*h = append(*h, card)
}

// RemoveAt removes and returns the card at index i. The index must be valid.
func (h *Hand) RemoveAt(i int) Card {
	if i < 0 || i >= len(*h) {
		log.Panicf("Error: hand index %d out of range (size %d)", i, len(*h))
	}
	card := (*h)[i]
	*h = append((*h)[:i:i], (*h)[i+1:]...)
	return card
}

// Valid reports whether i selects a card of the hand.
func (h Hand) Valid(i int) bool {
	return i >= 0 && i < len(h)
}

// Clone returns a copy that does not share the backing array.
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
