package types

import "errors"

// Domain errors for input validation. These indicate caller mistakes and
// are the only error class that crosses the library boundary; degraded
// availability conditions are absorbed by the components themselves.
var (
	ErrInvalidThreshold   = errors.New("threshold must be between 0 and 1")
	ErrInvalidLimit       = errors.New("limit must be > 0")
	ErrEmptyQuery         = errors.New("query text cannot be empty")
	ErrUnknownContext     = errors.New("unknown query context")
	ErrEmptyComponentType = errors.New("component type cannot be empty")
	ErrDimensionMismatch  = errors.New("vector dimension mismatch")
	ErrPatternNotFound    = errors.New("pattern not found")
)
