// Package linalg is the engine's small linear-algebra kernel. It has no
// domain knowledge; optimizers hand it covariance matrices and validate
// whatever comes back.
package linalg

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PivotEpsilon is the threshold below which a pivot is treated as zero.
const PivotEpsilon = 1e-10

// ErrNotSquare is returned when the input matrix is not square.
var ErrNotSquare = errors.New("matrix must be square")

// Invert computes the inverse of a square matrix by Gauss-Jordan elimination
// with partial pivoting (max-absolute pivot per column).
//
// Columns whose best pivot is below PivotEpsilon are skipped instead of
// failing: on near-singular input the result is a best-effort pseudo-inverse.
// Callers screen the result with NearSingular before trusting it.
func Invert(m *mat.Dense) (*mat.Dense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, ErrNotSquare
	}
	n := r

	// Augmented system [A | I], reduced in place.
	a := mat.DenseCopyOf(m)
	inv := identity(n)

	for col := 0; col < n; col++ {
		// Partial pivoting: pick the row with the largest absolute value
		// in this column to bound numerical error.
		pivotRow := col
		pivotVal := math.Abs(a.At(col, col))
		for row := col + 1; row < n; row++ {
			if v := math.Abs(a.At(row, col)); v > pivotVal {
				pivotRow = row
				pivotVal = v
			}
		}

		if pivotVal < PivotEpsilon {
			// Near-singular column: skip rather than divide by ~0.
			continue
		}

		if pivotRow != col {
			swapRows(a, pivotRow, col)
			swapRows(inv, pivotRow, col)
		}

		// Scale the pivot row to make the pivot 1.
		p := a.At(col, col)
		for j := 0; j < n; j++ {
			a.Set(col, j, a.At(col, j)/p)
			inv.Set(col, j, inv.At(col, j)/p)
		}

		// Eliminate the column from every other row.
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := a.At(row, col)
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a.Set(row, j, a.At(row, j)-factor*a.At(col, j))
				inv.Set(row, j, inv.At(row, j)-factor*inv.At(col, j))
			}
		}
	}

	return inv, nil
}

// MulVec returns m * v as a plain slice.
func MulVec(m *mat.Dense, v []float64) []float64 {
	n, _ := m.Dims()
	out := make([]float64, n)
	vec := mat.NewVecDense(len(v), v)
	res := mat.NewVecDense(n, out)
	res.MulVec(m, vec)
	return res.RawVector().Data
}

// NearSingular reports whether inv is an unusable pseudo-inverse of m:
// any non-finite entry, or a residual m*inv far from the identity (which
// is what a skipped pivot leaves behind).
func NearSingular(m, inv *mat.Dense) bool {
	n, _ := inv.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := inv.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}

	var prod mat.Dense
	prod.Mul(m, inv)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod.At(i, j)-want) > 1e-6 {
				return true
			}
		}
	}
	return false
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func swapRows(m *mat.Dense, i, j int) {
	_, c := m.Dims()
	for col := 0; col < c; col++ {
		vi, vj := m.At(i, col), m.At(j, col)
		m.Set(i, col, vj)
		m.Set(j, col, vi)
	}
}
