package shared

import (
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Suit represents the suit of a card (Batons, Cups, Coins, Swords).
type Suit int

const (
	Batons Suit = iota
	Cups
	Coins
	Swords
)

// NumSuits is the number of suits in the deck.
const NumSuits = 4

var suitNames = [NumSuits]string{"batons", "cups", "coins", "swords"}

func (s Suit) String() string {
	if s < 0 || int(s) >= NumSuits {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// ParseSuit converts a lowercase suit name into a Suit.
func ParseSuit(s string) (Suit, error) {
	for i, n := range suitNames {
		if n == strings.ToLower(s) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

func (s Suit) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Suit) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSuit(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Name is one of the ten card names. The numeric value doubles as the
// card's name index in the encoded state.
type Name int

const (
	Ace Name = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Jack
	Knight
	King
)

// NumNames is the number of card names per suit.
const NumNames = 10

var cardNames = [NumNames]string{
	"ace", "two", "three", "four", "five",
	"six", "seven", "jack", "knight", "king",
}

// Point value of each name for scoring.
var cardPoints = [NumNames]int{
	Ace:    11,
	Three:  10,
	King:   4,
	Knight: 3,
	Jack:   2,
}

// Strength of each name within a suit (higher is better).
var cardRank = [NumNames]int{
	Ace:    9,
	Three:  8,
	King:   7,
	Knight: 6,
	Jack:   5,
	Seven:  4,
	Six:    3,
	Five:   2,
	Four:   1,
	Two:    0,
}

func (n Name) String() string {
	if n < 0 || int(n) >= NumNames {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return cardNames[n]
}

// ParseName converts a lowercase card name into a Name.
func ParseName(s string) (Name, error) {
	for i, n := range cardNames {
		if n == strings.ToLower(s) {
			return Name(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card name %q", s)
}

// Points returns the scoring value of the name.
func (n Name) Points() int { return cardPoints[n] }

// Rank returns the strength of the name within a suit.
func (n Name) Rank() int { return cardRank[n] }

// IsLoad reports whether the name is one of the two highest-value cards (ace, three).
func (n Name) IsLoad() bool { return n == Ace || n == Three }

// TotalPoints is the point value of the whole deck.
const TotalPoints = 120

// Card represents a single card. It is fully determined by name and suit.
type Card struct {
	Name Name
	Suit Suit
}

// NewCard builds a card, panicking on names or suits outside the deck.
func NewCard(name Name, suit Suit) Card {
	if name < 0 || int(name) >= NumNames || suit < 0 || int(suit) >= NumSuits {
		log.Panicf("Error: invalid card name %d / suit %d", int(name), int(suit))
	}
	return Card{Name: name, Suit: suit}
}

// Points returns the card's scoring value.
func (c Card) Points() int { return c.Name.Points() }

// Rank returns the card's strength within its suit.
func (c Card) Rank() int { return c.Name.Rank() }

// IsLoad reports whether the card is an ace or a three.
func (c Card) IsLoad() bool { return c.Name.IsLoad() }

// IsTrump reports whether the card belongs to the trump suit.
func (c Card) IsTrump(trump Suit) bool { return c.Suit == trump }

// String renders the card as "Ace of Swords".
func (c Card) String() string {
	name := c.Name.String()
	suit := c.Suit.String()
	return strings.ToUpper(name[:1]) + name[1:] + " of " + strings.ToUpper(suit[:1]) + suit[1:]
}

type cardJSON struct {
	Name   string `json:"name"`
	Suit   Suit   `json:"suit"`
	Points int    `json:"points"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Name: c.Name.String(), Suit: c.Suit, Points: c.Points()})
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var raw cardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name, err := ParseName(raw.Name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Suit = raw.Suit
	return nil
}
