// Package typechart defines the closed set of generation-III types and the
// attacker/defender multiplier chart between them.
package typechart

import (
	"fmt"
	"strings"
)

// Type is one member of the type universe. The numeric value is the row and
// column index into the chart and must never be renumbered.
type Type uint8

// The generation-III type universe in chart order.
const (
	Normal Type = iota
	Fighting
	Flying
	Poison
	Ground
	Rock
	Bug
	Ghost
	Steel
	Fire
	Water
	Grass
	Electric
	Psychic
	Ice
	Dragon
	Dark

	// Count is the number of types in the universe.
	Count = int(Dark) + 1
)

var names = [Count]string{
	Normal:   "normal",
	Fighting: "fighting",
	Flying:   "flying",
	Poison:   "poison",
	Ground:   "ground",
	Rock:     "rock",
	Bug:      "bug",
	Ghost:    "ghost",
	Steel:    "steel",
	Fire:     "fire",
	Water:    "water",
	Grass:    "grass",
	Electric: "electric",
	Psychic:  "psychic",
	Ice:      "ice",
	Dragon:   "dragon",
	Dark:     "dark",
}

// byName is built once from names and never mutated afterwards.
var byName = func() map[string]Type {
	m := make(map[string]Type, Count)
	for i, n := range names {
		m[n] = Type(i)
	}
	return m
}()

// All returns the universe in ordinal order.
func All() []Type {
	out := make([]Type, Count)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// Names returns the canonical names in ordinal order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Parse maps a type name to its Type. Matching ignores case and surrounding
// whitespace. Unknown names return an error wrapping ErrUnknownType.
func Parse(name string) (Type, error) {
	t, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// Valid reports whether t is a member of the universe.
func (t Type) Valid() bool { return int(t) < Count }

// String returns the canonical lowercase name.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("type(%d)", uint8(t))
	}
	return names[t]
}

// MarshalText encodes the canonical name.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: ordinal %d", ErrUnknownType, uint8(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText decodes a type name via Parse.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
