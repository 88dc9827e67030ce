package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstreamStatus is returned when the API answers with a non-200 status.
	ErrUpstreamStatus = errors.New("pokeapi: unexpected upstream status")
	// ErrInvalidDocument is returned when a document cannot be decoded.
	ErrInvalidDocument = errors.New("pokeapi: invalid document")
)

// StatusError reports a non-200 upstream answer for one pokedex number.
type StatusError struct {
	ID   int
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d for #%d", ErrUpstreamStatus, e.Code, e.ID)
}

// Unwrap lets errors.Is match ErrUpstreamStatus.
func (e *StatusError) Unwrap() error { return ErrUpstreamStatus }

// Retryable reports whether a fetch error may succeed on another attempt.
// Client errors other than 429 are final.
func Retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= http.StatusInternalServerError
	}
	return true
}
