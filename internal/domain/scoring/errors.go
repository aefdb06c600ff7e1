package scoring

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidWeights is returned when a weight configuration cannot be
	// normalized: all raw weights are zero, or a raw weight is negative.
	ErrInvalidWeights = errors.New("invalid weight configuration")
)
