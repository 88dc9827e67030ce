package service

import "errors"

// Sentinel kinds returned by the Service.
var (
	ErrRosterNotReady = errors.New("roster not loaded")
	ErrNotFound       = errors.New("no pokemon matches query")
	ErrNoStore        = errors.New("no document cache configured")
	ErrNoFetcher      = errors.New("no upstream client configured")
)
