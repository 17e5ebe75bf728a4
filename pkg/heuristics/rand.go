package heuristics

import "math/rand/v2"

// NewRand returns a PCG-backed source seeded with seed. The same seed always
// yields the same scan order.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func orDefault(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return NewRand(0)
	}
	return rng
}
