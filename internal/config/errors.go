package config

import (
	"errors"
)

// Sentinel error kinds for configuration loading. Callers branch with
// errors.Is to distinguish bad values from provider failures.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("configuration load failed")
)
