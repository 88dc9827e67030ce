package typechart

import "errors"

// Sentinel kinds for type lookups.
var (
	ErrUnknownType = errors.New("unknown type")
)
