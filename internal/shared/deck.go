package shared

import (
	"errors"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = NumSuits * NumNames

// ErrEmptyDeck is raised when drawing from a deck with no cards left.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck represents the ordered draw pile. The front of Cards is the next card drawn.
type Deck struct {
	Cards []Card
	rng   *rand.Rand
}

// NewDeck creates the standard 40-card deck, suit by suit, in name order.
// rng is used by Shuffle.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, DeckSize)
	for s := Suit(0); s < NumSuits; s++ {
		for n := Name(0); n < NumNames; n++ {
			cards = append(cards, Card{Name: n, Suit: s})
		}
	}
	return &Deck{Cards: cards, rng: rng}
}

// Shuffle randomizes the order of cards in the deck.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	log.Debug("Deck shuffled.")
}

// Draw removes and returns the front card. Drawing from an empty deck is a caller bug.
func (d *Deck) Draw() Card {
	if len(d.Cards) == 0 {
		log.Panicf("Error: cannot draw: %v", ErrEmptyDeck)
	}
	c := d.Cards[0]
	d.Cards = d.Cards[1:]
	return c
}

// PutBack appends a card to the back of the deck (used for the revealed trump card).
func (d *Deck) PutBack(c Card) {
	d.Cards = append(d.Cards, c)
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int { return len(d.Cards) }
