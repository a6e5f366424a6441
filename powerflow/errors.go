package powerflow

import "errors"

var ErrSingularJacobian = errors.New("powerflow: singular jacobian")
