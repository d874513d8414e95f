package aco

// pheromoneStore owns the tau matrix and its lifecycle operations. The
// engine is the only writer for the lifetime of a run; external observers
// only ever see snapshots.
type pheromoneStore struct {
	tau *matrix
}

func newPheromoneStore(n int) *pheromoneStore {
	s := &pheromoneStore{tau: newMatrix(n)}
	s.initialize()
	return s
}

// initialize resets every off-diagonal entry to 1.0 and the diagonal to 0.0.
func (s *pheromoneStore) initialize() {
	n := s.tau.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				s.tau.set(i, j, 0)
			} else {
				s.tau.set(i, j, 1)
			}
		}
	}
}

// evaporate multiplies every entry by the persistence factor p, the fraction
// of pheromone retained per cycle. The evaporation rate is 1-p.
func (s *pheromoneStore) evaporate(p float64) {
	s.tau.scale(p)
}

// deposit reinforces each consecutive edge of the tour with q/length in both
// directions. Deposits from successive calls accumulate additively. A tour
// of zero length (every city coincident) deposits nothing, keeping tau free
// of infinities.
func (s *pheromoneStore) deposit(tour Tour, length, q float64) {
	if length <= 0 {
		return
	}
	amount := q / length
	for i := 0; i+1 < len(tour); i++ {
		a, b := tour[i], tour[i+1]
		s.tau.add(a, b, amount)
		s.tau.add(b, a, amount)
	}
}
