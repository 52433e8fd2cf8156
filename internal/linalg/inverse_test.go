package linalg

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestInvert_Identity(t *testing.T) {
	m := identity(3)

	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("Invert() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if got := inv.At(i, j); math.Abs(got-want) > 1e-12 {
				t.Errorf("inv[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestInvert_RoundTrip(t *testing.T) {
	// A well-conditioned 3x3 covariance-like matrix.
	m := mat.NewDense(3, 3, []float64{
		4.0, 1.2, 0.5,
		1.2, 9.0, 2.1,
		0.5, 2.1, 16.0,
	})

	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("Invert() error = %v", err)
	}

	var prod mat.Dense
	prod.Mul(m, inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if got := prod.At(i, j); math.Abs(got-want) > 1e-9 {
				t.Errorf("(A * A^-1)[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestInvert_NotSquare(t *testing.T) {
	m := mat.NewDense(2, 3, nil)

	_, err := Invert(m)
	if !errors.Is(err, ErrNotSquare) {
		t.Errorf("error = %v, want ErrNotSquare", err)
	}
}

func TestInvert_SingularDegradesSilently(t *testing.T) {
	// Second row is a multiple of the first: rank 1.
	m := mat.NewDense(2, 2, []float64{
		1, 2,
		2, 4,
	})

	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("singular input must not error, got %v", err)
	}
	if !NearSingular(m, inv) {
		t.Error("NearSingular() = false for a rank-deficient inverse")
	}
}

func TestNearSingular_HealthyInverse(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		2, 0,
		0, 4,
	})

	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("Invert() error = %v", err)
	}
	if NearSingular(m, inv) {
		t.Error("NearSingular() = true for a healthy inverse")
	}
}

func TestMulVec(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	got := MulVec(m, []float64{1, 1})
	want := []float64{3, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("MulVec()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
