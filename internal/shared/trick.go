package shared

// Winner identifies which card of a head-to-head trick takes it.
type Winner int

const (
	WinnerIsFirst Winner = iota
	WinnerIsSecond
)

// Compare determines the winner of a trick between the led card (first) and the
// response (second):
//   - same suit: higher rank wins
//   - different suits: a trump card wins, otherwise the lead holds
func Compare(first, second Card, trump Suit) Winner {
	if first.Suit == second.Suit {
		if first.Rank() > second.Rank() {
			return WinnerIsFirst
		}
		return WinnerIsSecond
	}
	if first.Suit == trump {
		return WinnerIsFirst
	}
	if second.Suit == trump {
		return WinnerIsSecond
	}
	return WinnerIsFirst
}

// Beats reports whether response takes the trick led by table.
func Beats(response, table Card, trump Suit) bool {
	return Compare(table, response, trump) == WinnerIsSecond
}

// TrickPoints returns the points captured by the winner of a trick.
func TrickPoints(first, second Card) int {
	return first.Points() + second.Points()
}
