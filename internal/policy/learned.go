package policy

import (
	"context"
	"math"
)

// NumActions is the size of the action space a learned policy scores:
// one slot per possible hand position.
const NumActions = 3

// Scorer is implemented by learned policies. It maps an encoded match state to
// one score per action slot.
type Scorer interface {
	Score(ctx context.Context, state []float32) ([]float32, error)
}

// MaskedArgmax returns the best-scoring index among the first valid slots.
// Slots at or past valid are never chosen; ties go to the lowest index.
// It returns 0 when valid is not positive.
func MaskedArgmax(scores []float32, valid int) int {
	best := 0
	bestScore := float32(math.Inf(-1))
	for i := 0; i < valid && i < len(scores); i++ {
		if scores[i] > bestScore {
			best, bestScore = i, scores[i]
		}
	}
	return best
}
