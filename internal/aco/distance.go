package aco

import (
	"math"

	"github.com/issoudelache/ANT-tsp--demo/internal/tsp"
)

// buildDistanceMatrices computes the pairwise Euclidean distance matrix and
// its reciprocal visibility matrix for the given cities. Both are symmetric
// with a zero diagonal and are computed once per engine; coordinates never
// change afterwards.
//
// A coincident city pair has distance zero; its visibility resolves to zero
// rather than +Inf so degenerate pairs cannot leak infinities into edge
// scores.
func buildDistanceMatrices(cities []tsp.City) (dist, eta *matrix) {
	n := len(cities)
	dist = newMatrix(n)
	eta = newMatrix(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := cities[i].X - cities[j].X
			dy := cities[i].Y - cities[j].Y
			d := math.Sqrt(dx*dx + dy*dy)
			dist.set(i, j, d)
			dist.set(j, i, d)
			if d > 0 {
				r := 1 / d
				eta.set(i, j, r)
				eta.set(j, i, r)
			}
		}
	}
	return dist, eta
}
