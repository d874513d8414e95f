package aco

import (
	"fmt"
	"math"
	"math/rand"
)

// Tour is a closed visiting order: n+1 city indices beginning and ending at
// the same city, visiting every other city exactly once in between.
type Tour []int

// Validate checks that the tour is a proper closed permutation of n cities.
func (t Tour) Validate(n int) error {
	if len(t) != n+1 {
		return fmt.Errorf("tour has %d entries, want %d", len(t), n+1)
	}
	if t[0] != t[len(t)-1] {
		return fmt.Errorf("tour does not close: starts at %d, ends at %d", t[0], t[len(t)-1])
	}
	seen := make([]bool, n)
	for _, c := range t[:len(t)-1] {
		if c < 0 || c >= n {
			return fmt.Errorf("city index %d out of range [0,%d)", c, n)
		}
		if seen[c] {
			return fmt.Errorf("city %d visited twice", c)
		}
		seen[c] = true
	}
	return nil
}

// length sums dist over consecutive tour pairs.
func (t Tour) length(dist *matrix) float64 {
	var sum float64
	for i := 0; i+1 < len(t); i++ {
		sum += dist.at(t[i], t[i+1])
	}
	return sum
}

// constructTour builds one ant's tour from the start city. Each step scores
// every unvisited city j as tau[cur][j]^alpha * eta[cur][j]^beta and samples
// the next city by inverse-CDF roulette with a single uniform draw: the
// first unvisited city whose cumulative probability meets or exceeds the
// draw wins. Visited cities are excluded outright (implicit tabu list).
//
// A score total of zero or one that is not finite (underflow at extreme
// exponents, or every remaining city coincident with the current one) falls
// back to a uniform pick among the unvisited cities, still consuming exactly
// one draw for the step.
func constructTour(start int, tau, eta *matrix, alpha, beta float64, rng *rand.Rand) Tour {
	n := tau.n
	tour := make(Tour, 0, n+1)
	visited := make([]bool, n)
	scores := make([]float64, n)

	tour = append(tour, start)
	visited[start] = true
	current := start

	for len(tour) < n {
		total := 0.0
		for j := 0; j < n; j++ {
			if visited[j] {
				scores[j] = 0
				continue
			}
			s := math.Pow(tau.at(current, j), alpha) * math.Pow(eta.at(current, j), beta)
			scores[j] = s
			total += s
		}

		var next int
		if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			next = uniformPick(visited, rng)
		} else {
			next = roulettePick(visited, scores, total, rng)
		}

		tour = append(tour, next)
		visited[next] = true
		current = next
	}

	return append(tour, start)
}

// roulettePick draws once and walks the cumulative distribution over the
// unvisited cities. If accumulated rounding leaves the draw above the final
// cumulative value, the last unvisited city is taken.
func roulettePick(visited []bool, scores []float64, total float64, rng *rand.Rand) int {
	r := rng.Float64()
	cumulative := 0.0
	last := -1
	for j, v := range visited {
		if v {
			continue
		}
		last = j
		cumulative += scores[j] / total
		if r <= cumulative {
			return j
		}
	}
	return last
}

// uniformPick selects uniformly among the unvisited cities. Callers
// guarantee at least one city is unvisited.
func uniformPick(visited []bool, rng *rand.Rand) int {
	remaining := 0
	for _, v := range visited {
		if !v {
			remaining++
		}
	}
	k := rng.Intn(remaining)
	for j, v := range visited {
		if v {
			continue
		}
		if k == 0 {
			return j
		}
		k--
	}
	return -1
}
