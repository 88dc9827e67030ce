package worker

import "errors"

// ErrStopped is returned for jobs abandoned by a shutdown.
var ErrStopped = errors.New("worker stopped")
