package rosette

import "errors"

var (
	// ErrInvalidConfiguration indicates a non-positive radius, a rosette
	// threshold below 2, or a negative worker count.
	ErrInvalidConfiguration = errors.New("rosette: invalid configuration")
	// ErrDuplicateCell indicates two input cells share the same ID.
	ErrDuplicateCell = errors.New("rosette: duplicate cell id")
)
