package codec

import "errors"

// ErrNonFinite is returned when canonicalization encounters NaN or ±Inf.
var ErrNonFinite = errors.New("codec: non-finite float value")

// ErrUnsupportedType is returned when a value has no canonical encoding.
var ErrUnsupportedType = errors.New("codec: unsupported value type")

// CodecError wraps a canonicalization failure with the offending path,
// matching the ValueDomain/CodecError kinds of §7.
type CodecError struct {
	Path string
	Err  error
}

func (e *CodecError) Error() string {
	if e.Path == "" {
		return "codec: " + e.Err.Error()
	}

	return "codec: at " + e.Path + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error { return e.Err }
