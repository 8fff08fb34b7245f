package executor

import "errors"

var (
	// ErrClosed is returned for submissions after Release.
	ErrClosed = errors.New("executor is closed")
)
