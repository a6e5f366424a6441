package powerflow

import (
	"fmt"
	"math"
)

// realDense is a row-major dense real matrix, sized for the Jacobian.
// It mirrors ybus.Dense but over float64 — the Jacobian is always
// real even though Y_bus is complex.
type realDense struct {
	n    int
	data []float64
}

func newRealDense(n int) *realDense {
	return &realDense{n: n, data: make([]float64, n*n)}
}

func (d *realDense) at(i, j int) float64     { return d.data[i*d.n+j] }
func (d *realDense) set(i, j int, v float64) { d.data[i*d.n+j] = v }

// solveLU solves J·x = b via Doolittle LU with partial pivoting, the
// fixed algorithm the specification requires for the Newton step —
// no randomized pivoting beyond ordinary numerical partial pivoting.
func solveLU(j *realDense, b []float64) ([]float64, error) {
	n := j.n
	a := make([]float64, len(j.data))
	copy(a, j.data)
	rhs := make([]float64, n)
	copy(rhs, b)

	for k := 0; k < n; k++ {
		pivotRow, pivotAbs := k, math.Abs(a[k*n+k])
		for i := k + 1; i < n; i++ {
			if v := math.Abs(a[i*n+k]); v > pivotAbs {
				pivotRow, pivotAbs = i, v
			}
		}
		if pivotAbs == 0 {
			return nil, fmt.Errorf("powerflow: zero pivot at column %d: %w", k, ErrSingularJacobian)
		}
		if pivotRow != k {
			for col := 0; col < n; col++ {
				a[k*n+col], a[pivotRow*n+col] = a[pivotRow*n+col], a[k*n+col]
			}
			rhs[k], rhs[pivotRow] = rhs[pivotRow], rhs[k]
		}

		for i := k + 1; i < n; i++ {
			factor := a[i*n+k] / a[k*n+k]
			if factor == 0 {
				continue
			}
			for col := k; col < n; col++ {
				a[i*n+col] -= factor * a[k*n+col]
			}
			rhs[i] -= factor * rhs[k]
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for k := i + 1; k < n; k++ {
			sum -= a[i*n+k] * x[k]
		}
		if a[i*n+i] == 0 {
			return nil, fmt.Errorf("powerflow: zero diagonal at row %d: %w", i, ErrSingularJacobian)
		}
		x[i] = sum / a[i*n+i]
	}

	return x, nil
}
