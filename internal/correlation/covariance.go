package correlation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/folioquant/backend/internal/contracts"
)

// Shrinkage parameters applied when the asset set sits in a high correlation
// tier: pulling off-diagonal mass toward zero (and nudging the diagonal up)
// is a ridge-style regularization that keeps the inverse stable when assets
// are nearly collinear.
const (
	ShrinkOffDiagonal = 0.3
	ShrinkDiagonal    = 1.01
)

// Covariance builds the covariance matrix for the asset set: diagonal
// (sigma_i/100)^2, off-diagonal rho_ij * (sigma_i/100) * (sigma_j/100).
// Volatilities arrive as percentages; entries are in return-fraction units.
// The matrix is built once per run and never mutated afterwards.
func (e *Estimator) Covariance(assets []contracts.Asset) *mat.Dense {
	n := len(assets)
	cov := mat.NewDense(n, n, nil)

	for i := 0; i < n; i++ {
		si := assets[i].Risk / 100
		cov.Set(i, i, si*si)
		for j := i + 1; j < n; j++ {
			sj := assets[j].Risk / 100
			c := e.Pairwise(assets[i], assets[j]) * si * sj
			cov.Set(i, j, c)
			cov.Set(j, i, c)
		}
	}
	return cov
}

// Shrink returns a regularized copy of a covariance matrix. The input is
// left untouched so other optimizer paths keep the raw matrix.
func Shrink(cov *mat.Dense) *mat.Dense {
	n, _ := cov.Dims()
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := cov.At(i, j)
			if i == j {
				out.Set(i, j, v*ShrinkDiagonal)
			} else {
				out.Set(i, j, v*ShrinkOffDiagonal)
			}
		}
	}
	return out
}
