package game

import (
	"math/rand/v2"
	"time"
)

// Source yields uniformly distributed floats in [0, 1).
// Every shuffle and sample in the engines draws from a Source so a seeded
// one makes a whole play-through reproducible.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic Source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultSource returns a Source seeded from the wall clock.
func DefaultSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

// Intn returns a uniform integer in [0, n). Panics if n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		panic("game: Intn called with n <= 0")
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		// Guards against a misbehaving Source returning exactly 1.0.
		i = n - 1
	}
	return i
}

// Shuffle permutes s in place with Fisher–Yates.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		s[i], s[j] = s[j], s[i]
	}
}

// Shuffled returns a shuffled copy of s, leaving s untouched.
func Shuffled[T any](src Source, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	Shuffle(src, out)
	return out
}

// Sample picks k distinct indices from [0, n) skipping any index in exclude.
// The result is in selection order. It returns ErrInsufficientPool when
// fewer than k indices are eligible.
func Sample(src Source, n, k int, exclude ...int) ([]int, error) {
	skip := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		if e >= 0 && e < n {
			skip[e] = true
		}
	}

	eligible := make([]int, 0, n-len(skip))
	for i := 0; i < n; i++ {
		if !skip[i] {
			eligible = append(eligible, i)
		}
	}
	if k > len(eligible) {
		return nil, &ErrInsufficientPool{Need: k, Have: len(eligible)}
	}

	// Partial Fisher–Yates: only the first k slots need to be settled.
	for i := 0; i < k; i++ {
		j := i + Intn(src, len(eligible)-i)
		eligible[i], eligible[j] = eligible[j], eligible[i]
	}
	return eligible[:k], nil
}
