package aco

import (
	"math"
	"testing"
)

func TestPheromoneStoreInitialize(t *testing.T) {
	s := newPheromoneStore(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 1.0
			if i == j {
				want = 0.0
			}
			if got := s.tau.at(i, j); got != want {
				t.Errorf("tau[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

// Every off-diagonal entry after evaporate(p) must equal its prior value
// times p. p is the fraction retained, so p=1 is a no-op and p=0 clears the
// matrix.
func TestEvaporationLaw(t *testing.T) {
	testCases := []struct {
		name string
		p    float64
	}{
		{"full_evaporation", 0.0},
		{"quarter_retained", 0.25},
		{"half_retained", 0.5},
		{"no_evaporation", 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newPheromoneStore(5)
			// Roughen the matrix first so the law is checked on
			// non-uniform values.
			s.deposit(Tour{0, 2, 4, 1, 3, 0}, 12.5, 100)

			before := make([]float64, len(s.tau.v))
			copy(before, s.tau.v)

			s.evaporate(tc.p)

			for idx, prior := range before {
				want := prior * tc.p
				if got := s.tau.v[idx]; math.Abs(got-want) > 1e-12 {
					t.Fatalf("entry %d = %v after evaporate(%v), want %v", idx, got, tc.p, want)
				}
			}
		})
	}
}

func TestDepositReinforcesBothDirections(t *testing.T) {
	s := newPheromoneStore(3)
	tour := Tour{0, 1, 2, 0}

	s.deposit(tour, 50, 100)

	amount := 100.0 / 50.0
	edges := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	for _, e := range edges {
		a, b := e[0], e[1]
		if got := s.tau.at(a, b); got != 1+amount {
			t.Errorf("tau[%d][%d] = %v, want %v", a, b, got, 1+amount)
		}
		if got := s.tau.at(b, a); got != 1+amount {
			t.Errorf("tau[%d][%d] = %v, want %v", b, a, got, 1+amount)
		}
	}
	for i := 0; i < 3; i++ {
		if got := s.tau.at(i, i); got != 0 {
			t.Errorf("diagonal tau[%d][%d] = %v, want 0", i, i, got)
		}
	}
}

// Multiple ants crossing the same edge in one cycle sum their contributions.
func TestDepositAccumulates(t *testing.T) {
	s := newPheromoneStore(3)
	tour := Tour{0, 1, 2, 0}

	s.deposit(tour, 10, 100)
	s.deposit(tour, 20, 100)

	want := 1 + 100.0/10.0 + 100.0/20.0
	if got := s.tau.at(0, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("tau[0][1] = %v after two deposits, want %v", got, want)
	}
}

// A zero-length tour (all cities coincident) must deposit nothing rather
// than divide by zero.
func TestDepositZeroLengthTour(t *testing.T) {
	s := newPheromoneStore(3)
	s.deposit(Tour{0, 1, 2, 0}, 0, 100)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			got := s.tau.at(i, j)
			if math.IsInf(got, 0) || math.IsNaN(got) {
				t.Fatalf("tau[%d][%d] is non-finite after zero-length deposit: %v", i, j, got)
			}
			want := 1.0
			if i == j {
				want = 0.0
			}
			if got != want {
				t.Errorf("tau[%d][%d] = %v, want %v (unchanged)", i, j, got, want)
			}
		}
	}
}

func TestPheromoneSymmetryAfterMixedOperations(t *testing.T) {
	s := newPheromoneStore(6)
	s.deposit(Tour{0, 3, 1, 4, 2, 5, 0}, 33.3, 100)
	s.evaporate(0.5)
	s.deposit(Tour{5, 4, 3, 2, 1, 0, 5}, 21.7, 100)

	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if s.tau.at(i, j) != s.tau.at(j, i) {
				t.Fatalf("tau not symmetric at (%d,%d): %v vs %v", i, j, s.tau.at(i, j), s.tau.at(j, i))
			}
		}
	}
}
