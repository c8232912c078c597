package deck

import (
	"math/rand/v2"

	"github.com/arcanaland/atelier/internal/card"
)

// Shuffle returns a uniformly random permutation of cards using the
// Fisher-Yates algorithm. The input slice is left untouched.
func Shuffle(cards []card.Card, rng *rand.Rand) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := intN(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
