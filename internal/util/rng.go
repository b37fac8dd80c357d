package util

import "math/rand"

// New returns a seeded source. Seed 0 is mapped to 1 so that an unset seed
// still replays.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive spreads per-episode seeds so neighbouring episodes do not share streams.
func Derive(base int64, i int) int64 {
	return base + int64(i)*7919
}

// PolicySeed gives a controller its own stream, apart from the environment's
// reset source seeded with the same value.
func PolicySeed(seed int64) int64 {
	return seed ^ 0x5DEECE66D
}
