// Package model contains domain models passed between layers.
package model

import "github.com/okian/pokelookup/internal/domain/typechart"

// Pokemon is the resolved view of one roster member. Values are created by
// roster resolution and are never mutated afterwards.
type Pokemon struct {
	ID        int            // pokedex number, unique within a roster
	Name      string         // canonical name, taken verbatim from the source record
	Primary   typechart.Type // first type slot
	secondary typechart.Type
	dual      bool
}

// NewPokemon builds a single-typed Pokemon.
func NewPokemon(id int, name string, primary typechart.Type) Pokemon {
	return Pokemon{ID: id, Name: name, Primary: primary}
}

// NewDualPokemon builds a Pokemon with two type slots. The two types are
// allowed to be equal.
func NewDualPokemon(id int, name string, primary, secondary typechart.Type) Pokemon {
	return Pokemon{ID: id, Name: name, Primary: primary, secondary: secondary, dual: true}
}

// Secondary returns the second type slot and whether it is present.
func (p Pokemon) Secondary() (typechart.Type, bool) {
	return p.secondary, p.dual
}

// Types returns the one or two types in slot order.
func (p Pokemon) Types() []typechart.Type {
	if p.dual {
		return []typechart.Type{p.Primary, p.secondary}
	}
	return []typechart.Type{p.Primary}
}

// FetchJob asks the fetch pipeline to pull one pokedex entry.
type FetchJob struct {
	ID int
}
