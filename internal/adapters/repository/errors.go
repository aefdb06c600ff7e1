package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyDone  = errors.New("run already finalized")
	ErrDuplicateRun = errors.New("run id already exists")
)
