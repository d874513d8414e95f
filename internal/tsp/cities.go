// Package tsp holds the problem-domain types for the solver: city
// coordinates and the random instance generator used by the CLIs, the
// benchmark runner and the dashboard.
package tsp

import "math/rand"

// CoordMax bounds the coordinate range of generated instances. Cities are
// sampled uniformly from [0, CoordMax) on both axes.
const CoordMax = 100.0

// City is one 2D city position. Index order in a []City slice is the
// canonical city identifier used throughout the engine.
type City struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GenerateCities samples n cities uniformly from the [0, CoordMax) square
// using a dedicated source, so the same seed always yields the same
// instance. Returns nil for n <= 0.
func GenerateCities(n int, seed int64) []City {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	cities := make([]City, n)
	for i := range cities {
		cities[i] = City{
			X: rng.Float64() * CoordMax,
			Y: rng.Float64() * CoordMax,
		}
	}
	return cities
}
