// Package similarity computes cosine similarity over the catalog's
// feature vectors. The full pairwise matrix is built once at startup and
// answers every "more like this" query with a row lookup; query-time
// vectors are compared against the catalog on demand.
package similarity

import "github.com/kdimtricp/cinematch/internal/feature"

// Matrix is the symmetric pairwise cosine similarity matrix of the
// catalog. The diagonal is 1 by convention; rows whose vector has zero
// norm are 0 everywhere else.
type Matrix struct {
	rows [][]float64
}

// Full computes the pairwise matrix. O(n²) dot products dominate startup
// cost; vectors are already l2-normalized so each entry is a plain sparse
// dot product.
func Full(vectors []feature.Vector) *Matrix {
	n := len(vectors)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := Dot(vectors[i], vectors[j])
			rows[i][j] = s
			rows[j][i] = s
		}
	}
	return &Matrix{rows: rows}
}

// Size reports the matrix dimension.
func (m *Matrix) Size() int {
	return len(m.rows)
}

// Row returns the similarity row for a catalog position. Callers must
// treat the slice as read-only.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

// At returns the similarity of two catalog positions.
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Against computes the cosine similarity of one query vector against each
// catalog vector. A zero-norm query yields all zeros.
func Against(query feature.Vector, vectors []feature.Vector) []float64 {
	sims := make([]float64, len(vectors))
	for i, v := range vectors {
		sims[i] = Dot(query, v)
	}
	return sims
}

// Dot is the sparse dot product of two normalized vectors, i.e. their
// cosine similarity. Iterates the smaller operand.
func Dot(a, b feature.Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		sum += w * b[i]
	}
	return sum
}
