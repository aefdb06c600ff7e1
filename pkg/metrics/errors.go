package metrics

import (
	"errors"
)

// Sentinel kinds for metrics registration and observation errors.
var (
	ErrObserveFailed = errors.New("metric observation failed")
)
