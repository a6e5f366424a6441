package ybus

import "errors"

var (
	ErrDimensionMismatch = errors.New("ybus: dimension mismatch")
	ErrIndexOutOfBounds   = errors.New("ybus: index out of bounds")
	ErrSingular           = errors.New("ybus: matrix is singular")
)
