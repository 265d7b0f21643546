// Package randutil derives reproducible random generators from a game seed.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns the root generator for seed. The dealer shuffles with it.
func New(seed int64) *rand.Rand {
	return pcg(uint64(seed), goldenRatio64)
}

// Derive returns the generator for one stream under seed, such as a single
// player's key presses. Streams never share state with each other or with New.
func Derive(seed int64, stream uint64) *rand.Rand {
	return pcg(uint64(seed)^mix(stream+1), goldenRatio64*(stream+2))
}

func pcg(base, step uint64) *rand.Rand {
	return rand.New(rand.NewPCG(mix(base), mix(base+step)))
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
