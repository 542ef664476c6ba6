package models_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func checkShape(t *testing.T, name string, m *mat.Dense, rows, cols int) {
	t.Helper()
	if m == nil {
		t.Fatalf("%s matrix is nil", name)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		t.Fatalf("%s shape mismatch: got (%d, %d) want (%d, %d)", name, r, c, rows, cols)
	}
}

func checkColumn(t *testing.T, name string, m *mat.Dense, col int, want float64) {
	t.Helper()
	r, _ := m.Dims()
	for i := 0; i < r; i++ {
		if got := m.At(i, col); got != want {
			t.Fatalf("%s[%d, %d] = %v, want %v", name, i, col, got, want)
		}
	}
}

func checkNonNegative(t *testing.T, name string, m *mat.Dense) {
	t.Helper()
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v < 0 || math.IsNaN(v) {
				t.Fatalf("%s[%d, %d] = %v, want non-negative", name, i, j, v)
			}
		}
	}
}
