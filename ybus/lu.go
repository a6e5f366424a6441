package ybus

import "fmt"

// LUResult holds a partially-pivoted Doolittle decomposition:
// P·A = L·U, where perm[i] is the original row that ended up at row i.
type LUResult struct {
	L, U *Dense
	perm []int
}

// LU performs Doolittle LU decomposition with partial pivoting on the
// magnitude of complex entries, generalizing the teacher's
// non-pivoted real Doolittle to complex128 and adding the partial
// pivoting the power-flow linear solve requires.
//
// Blueprint:
//
//	Stage 1 (Validate): ensure m is square.
//	Stage 2 (Prepare): copy m into a working buffer, init L, U, perm.
//	Stage 3 (Execute): for each pivot column, select the largest-magnitude
//	                   row, swap, then eliminate below the pivot.
//	Stage 4 (Finalize): return L, U and the permutation.
func LU(m *Dense) (*LUResult, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("ybus: LU: non-square matrix %dx%d: %w", m.rows, m.cols, ErrDimensionMismatch)
	}
	n := m.rows

	a := make([]complex128, len(m.data))
	copy(a, m.data)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	at := func(i, j int) complex128 { return a[i*n+j] }
	set := func(i, j int, v complex128) { a[i*n+j] = v }

	L, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	U, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}

	for k := 0; k < n; k++ {
		pivotRow, pivotMag := k, sqMag(at(k, k))
		for i := k + 1; i < n; i++ {
			if mag := sqMag(at(i, k)); mag > pivotMag {
				pivotRow, pivotMag = i, mag
			}
		}
		if pivotMag == 0 {
			return nil, fmt.Errorf("ybus: LU: zero pivot at column %d: %w", k, ErrSingular)
		}
		if pivotRow != k {
			for j := 0; j < n; j++ {
				a[k*n+j], a[pivotRow*n+j] = a[pivotRow*n+j], a[k*n+j]
			}
			perm[k], perm[pivotRow] = perm[pivotRow], perm[k]
			for j := 0; j < k; j++ {
				lk, lp := L.data[k*n+j], L.data[pivotRow*n+j]
				L.data[k*n+j], L.data[pivotRow*n+j] = lp, lk
			}
		}

		for i := k + 1; i < n; i++ {
			factor := at(i, k) / at(k, k)
			L.data[i*n+k] = factor
			for j := k; j < n; j++ {
				set(i, j, at(i, j)-factor*at(k, j))
			}
		}
	}

	for i := 0; i < n; i++ {
		L.data[i*n+i] = 1
		for j := i; j < n; j++ {
			U.data[i*n+j] = at(i, j)
		}
	}

	return &LUResult{L: L, U: U, perm: perm}, nil
}

// sqMag returns |c|², sufficient for pivot-magnitude comparison without
// the sqrt a true modulus would need.
func sqMag(c complex128) float64 {
	re, im := real(c), imag(c)

	return re*re + im*im
}

// Solve solves A·x = b for x given A's LU decomposition, applying the
// row permutation to b before forward/backward substitution.
func (r *LUResult) Solve(b []complex128) ([]complex128, error) {
	n := len(r.perm)
	if len(b) != n {
		return nil, fmt.Errorf("ybus: Solve: rhs length %d != %d: %w", len(b), n, ErrDimensionMismatch)
	}

	pb := make([]complex128, n)
	for i, p := range r.perm {
		pb[i] = b[p]
	}

	y := make([]complex128, n)
	for i := 0; i < n; i++ {
		sum := pb[i]
		for k := 0; k < i; k++ {
			sum -= r.L.data[i*n+k] * y[k]
		}
		y[i] = sum
	}

	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for k := i + 1; k < n; k++ {
			sum -= r.U.data[i*n+k] * x[k]
		}
		pivot := r.U.data[i*n+i]
		if pivot == 0 {
			return nil, fmt.Errorf("ybus: Solve: zero pivot at row %d: %w", i, ErrSingular)
		}
		x[i] = sum / pivot
	}

	return x, nil
}

// Inverse returns A⁻¹ by solving A·x = eᵢ for each standard basis
// vector eᵢ, the same column-by-column approach as the teacher's
// real-valued Inverse.
func Inverse(m *Dense) (*Dense, error) {
	lu, err := LU(m)
	if err != nil {
		return nil, fmt.Errorf("ybus: Inverse: %w", err)
	}
	n := m.rows

	inv, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for col := 0; col < n; col++ {
		e := make([]complex128, n)
		e[col] = 1
		x, err := lu.Solve(e)
		if err != nil {
			return nil, fmt.Errorf("ybus: Inverse: %w", err)
		}
		for i := 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
