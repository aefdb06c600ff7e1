package demo

import "time"

// HTTP status code constants.
const (
	StatusOK              = 200
	StatusCreated         = 201
	StatusAccepted        = 202
	StatusTooManyRequests = 429
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	RunPollInterval      = 200 * time.Millisecond
	RunPollDeadline      = 2 * time.Minute
	PercentageMultiplier = 100
)
