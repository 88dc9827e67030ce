package repository

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid pokedex number")
	ErrEmptyDoc  = errors.New("empty document")
)
