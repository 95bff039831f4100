package health

import "errors"

var (
	// ErrCheckFailed is returned by Report.Err when one or more checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that did not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)
