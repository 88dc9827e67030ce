// Package effectiveness combines chart lookups into the damage multiplier an
// attacking type deals to a resolved Pokemon.
package effectiveness

import (
	"sort"

	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/typechart"
)

// LookupFunc returns the single-type multiplier of attacker against defender.
type LookupFunc func(attacker, defender typechart.Type) typechart.Multiplier

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithLookup replaces the chart lookup. Nil values are ignored.
func WithLookup(fn LookupFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.lookup = fn
		}
	}
}

// Calculator computes effectiveness against Pokemon. It holds no mutable
// state and may be shared between goroutines.
type Calculator struct {
	lookup LookupFunc
}

// New creates a Calculator over the generation-III chart.
func New(opts ...Option) *Calculator {
	c := &Calculator{lookup: typechart.Lookup}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Effectiveness returns the product of the attacker's multipliers against
// each of the target's types. A missing secondary type contributes 1.
func (c *Calculator) Effectiveness(attacker typechart.Type, target model.Pokemon) typechart.Multiplier {
	m := c.lookup(attacker, target.Primary)
	if sec, ok := target.Secondary(); ok {
		m = m.Mul(c.lookup(attacker, sec))
	}
	return m
}

// Vector returns Effectiveness for every attacker in universe order.
func (c *Calculator) Vector(target model.Pokemon) []typechart.Multiplier {
	all := typechart.All()
	out := make([]typechart.Multiplier, len(all))
	for i, attacker := range all {
		out[i] = c.Effectiveness(attacker, target)
	}
	return out
}

// Breakdown is the per-slot detail behind one Effectiveness value.
type Breakdown struct {
	Attacker     typechart.Type
	Primary      typechart.Multiplier
	Secondary    typechart.Multiplier // Neutral when the target has one type
	HasSecondary bool
	Overall      typechart.Multiplier
}

// Explain returns the per-slot multipliers and the combined result.
func (c *Calculator) Explain(attacker typechart.Type, target model.Pokemon) Breakdown {
	b := Breakdown{
		Attacker:  attacker,
		Primary:   c.lookup(attacker, target.Primary),
		Secondary: typechart.Neutral,
		Overall:   c.Effectiveness(attacker, target),
	}
	if sec, ok := target.Secondary(); ok {
		b.Secondary = c.lookup(attacker, sec)
		b.HasSecondary = true
	}
	return b
}

// Group collects the attackers that share one multiplier.
type Group struct {
	Multiplier typechart.Multiplier
	Attackers  []typechart.Type
}

// Grouped buckets the Vector by multiplier, highest multiplier first, with
// attackers in universe order inside each bucket.
func (c *Calculator) Grouped(target model.Pokemon) []Group {
	var groups []Group
	for i, m := range c.Vector(target) {
		attacker := typechart.Type(i)
		idx := -1
		for g := range groups {
			if groups[g].Multiplier.Equal(m) {
				idx = g
				break
			}
		}
		if idx < 0 {
			groups = append(groups, Group{Multiplier: m})
			idx = len(groups) - 1
		}
		groups[idx].Attackers = append(groups[idx].Attackers, attacker)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[j].Multiplier.Less(groups[i].Multiplier)
	})
	return groups
}
