// Package ybus assembles the complex per-unit bus-admittance matrix
// (§4.6) and provides the dense complex128 linear-algebra primitives
// C7/C8 build on top of (LU decomposition, matrix inverse), generalized
// from the teacher's real-valued matrix/ops package to complex numbers.
package ybus

import "fmt"

// Dense is a row-major dense complex matrix, the complex counterpart
// of lvlath's matrix.Dense.
type Dense struct {
	rows, cols int
	data       []complex128
}

// NewDense allocates a zero rows×cols matrix.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("ybus: non-positive dimensions %dx%d: %w", rows, cols, ErrDimensionMismatch)
	}

	return &Dense{rows: rows, cols: cols, data: make([]complex128, rows*cols)}, nil
}

func (d *Dense) Rows() int { return d.rows }
func (d *Dense) Cols() int { return d.cols }

func (d *Dense) At(i, j int) (complex128, error) {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		return 0, fmt.Errorf("ybus: index (%d,%d) out of bounds %dx%d: %w", i, j, d.rows, d.cols, ErrIndexOutOfBounds)
	}

	return d.data[i*d.cols+j], nil
}

func (d *Dense) Set(i, j int, v complex128) error {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		return fmt.Errorf("ybus: index (%d,%d) out of bounds %dx%d: %w", i, j, d.rows, d.cols, ErrIndexOutOfBounds)
	}
	d.data[i*d.cols+j] = v

	return nil
}

func (d *Dense) Add(i, j int, v complex128) error {
	cur, err := d.At(i, j)
	if err != nil {
		return err
	}

	return d.Set(i, j, cur+v)
}
