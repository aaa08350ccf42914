package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation so generation, assignment,
// and random-strategy selection are reproducible for a fixed seed
type RNGPort interface {
	// Stream creates a deterministic generator for a named operation
	Stream(name string, seed int64) *rand.Rand
}

// HashedStream derives a per-operation seed from a base seed and a name,
// so two operations never share a stream
func HashedStream(name string, seed int64) *rand.Rand {
	var h int64 = seed
	for _, r := range name {
		h = h*31 + int64(r)
	}
	return rand.New(rand.NewSource(h))
}

// DefaultRNG is the standard RNGPort implementation
type DefaultRNG struct{}

func (DefaultRNG) Stream(name string, seed int64) *rand.Rand {
	return HashedStream(name, seed)
}
