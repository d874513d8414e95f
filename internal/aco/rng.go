package aco

import "math/rand"

// mixSeed folds a stream identifier into a parent seed with a
// SplitMix64-style finalizer (Vigna's constants), giving well-decorrelated
// child seeds even for consecutive stream ids.
func mixSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// antRNG returns the random stream for ant k of cycle c. Every ant of every
// cycle gets its own stream derived from the engine seed, so construction
// results do not depend on whether ants run sequentially or in parallel.
func antRNG(base int64, cycle, ant int) *rand.Rand {
	cycleSeed := mixSeed(base, uint64(cycle))
	return rand.New(rand.NewSource(mixSeed(cycleSeed, uint64(ant))))
}
