package roster

import "errors"

// Sentinel kinds for roster loading and resolution.
var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrDuplicateID      = errors.New("duplicate pokedex id")
	ErrUnresolvableType = errors.New("unresolvable type")
)
