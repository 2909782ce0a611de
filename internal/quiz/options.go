package quiz

import (
	"fmt"

	"github.com/abhisek/hanzidrill/internal/game"
)

// Options builds count answer options for pool[correct]: the correct
// display string plus count-1 distractors drawn without replacement from
// the rest of the pool, shuffled uniformly. Distractors whose text repeats
// the correct answer or an earlier distractor are skipped, so the result
// never contains duplicate strings.
func Options(src game.Source, pool []string, correct, count int) ([]string, error) {
	if count < 2 {
		return nil, game.ErrInvalidCount
	}
	if correct < 0 || correct >= len(pool) {
		return nil, fmt.Errorf("correct index %d out of range [0, %d)", correct, len(pool))
	}

	answer := pool[correct]
	need := count - 1

	candidates := make([]int, 0, len(pool)-1)
	for i := range pool {
		if i != correct {
			candidates = append(candidates, i)
		}
	}

	seen := map[string]bool{answer: true}
	out := make([]string, 0, count)
	// Lazy Fisher–Yates: settle one slot at a time and stop once enough
	// distinct distractors are found.
	for i := 0; i < len(candidates) && len(out) < need; i++ {
		j := i + game.Intn(src, len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]

		s := pool[candidates[i]]
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) < need {
		return nil, &game.ErrInsufficientPool{Need: need, Have: len(out)}
	}

	out = append(out, answer)
	game.Shuffle(src, out)
	return out, nil
}
