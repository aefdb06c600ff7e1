package dataset

import "errors"

// Sentinel error kinds for dataset loading. Schema problems are dataset-wide:
// a single bad row fails the whole load rather than being skipped, so a
// ranking is never derived from inconsistent data.
var (
	ErrEmptyDataset   = errors.New("dataset has no records")
	ErrMissingField   = errors.New("missing required field")
	ErrMalformedValue = errors.New("malformed field value")
	ErrTooManyRows    = errors.New("dataset exceeds row limit")
)
