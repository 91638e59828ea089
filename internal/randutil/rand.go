// Package randutil derives reproducible math/rand/v2 generators from int64 seeds.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG state words are derived from the one seed so call sites only ever
// carry a single number around.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Split returns n independent generators for parallel workers. The same seed
// always yields the same set of streams, in the same order.
func Split(seed int64, n int) []*rand.Rand {
	parent := New(seed)
	streams := make([]*rand.Rand, n)
	for i := range streams {
		streams[i] = New(parent.Int64())
	}
	return streams
}

// Seed picks a fresh seed from the runtime's entropy source, for callers that
// did not ask for a reproducible run but still want to log what was used.
func Seed() int64 {
	return rand.Int64()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
