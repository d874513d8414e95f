package aco

// matrix is a dense square matrix backed by a flat row-major slice. All
// engine matrices (distance, visibility, pheromone) share this layout so the
// whole-matrix operations run over one contiguous block.
type matrix struct {
	n int
	v []float64
}

func newMatrix(n int) *matrix {
	return &matrix{n: n, v: make([]float64, n*n)}
}

func (m *matrix) at(i, j int) float64 { return m.v[i*m.n+j] }

func (m *matrix) set(i, j int, x float64) { m.v[i*m.n+j] = x }

func (m *matrix) add(i, j int, x float64) { m.v[i*m.n+j] += x }

// scale multiplies every entry in place.
func (m *matrix) scale(f float64) {
	for i := range m.v {
		m.v[i] *= f
	}
}

// rows copies the matrix out as independent row slices.
func (m *matrix) rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := 0; i < m.n; i++ {
		out[i] = append([]float64(nil), m.v[i*m.n:(i+1)*m.n]...)
	}
	return out
}
