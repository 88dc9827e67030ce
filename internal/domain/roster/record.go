// Package roster turns raw pokedex records into resolved Pokemon and answers
// name/number queries against them.
package roster

import (
	"fmt"
	"strings"
)

// RawRecord is the unprocessed source form of one pokedex entry.
type RawRecord struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Types     []string    `json:"types"`      // current types in slot order
	PastTypes []PastTypes `json:"past_types"` // historical overrides
}

// PastTypes is a historical type assignment tagged with the version marker
// (a PokeAPI generation name such as "generation-v") it applied to.
type PastTypes struct {
	Generation string   `json:"generation"`
	Types      []string `json:"types"`
}

const (
	minTypes = 1
	maxTypes = 2
)

// validate checks the field contract of a raw record. It does not check that
// type names belong to the universe; that is a resolution concern.
func (r RawRecord) validate() error {
	switch {
	case r.ID <= 0:
		return fmt.Errorf("%w: id %d must be positive", ErrMalformedRecord, r.ID)
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: id %d has no name", ErrMalformedRecord, r.ID)
	case len(r.Types) < minTypes || len(r.Types) > maxTypes:
		return fmt.Errorf("%w: id %d has %d types", ErrMalformedRecord, r.ID, len(r.Types))
	}
	for i, past := range r.PastTypes {
		if strings.TrimSpace(past.Generation) == "" {
			return fmt.Errorf("%w: id %d override %d has no version marker", ErrMalformedRecord, r.ID, i)
		}
		if len(past.Types) < minTypes || len(past.Types) > maxTypes {
			return fmt.Errorf("%w: id %d override %d has %d types", ErrMalformedRecord, r.ID, i, len(past.Types))
		}
	}
	return nil
}
