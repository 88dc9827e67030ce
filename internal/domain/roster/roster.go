package roster

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/pkg/logger"
)

// entry is one resolved record plus the precomputed forms used by Find.
type entry struct {
	name    string // canonical lowercase name for exact matching
	folded  string // case-folded, whitespace-free name for similarity
	pokemon model.Pokemon
}

// DropReport describes a record excluded from the effective roster.
type DropReport struct {
	ID   int
	Name string
	Err  error
}

// Roster is an immutable set of resolved Pokemon. It is safe for concurrent
// readers; there are no mutating methods after Load returns.
type Roster struct {
	targetVersion string
	minSimilarity float64
	logger        logger.Logger

	entries []entry
	byID    map[int]int // id -> index into entries
	dropped []DropReport
}

// Load validates and resolves records into a new Roster. A malformed record
// or a duplicate id fails the whole load. Records whose types cannot be
// resolved are dropped, reported, and the load continues.
func Load(ctx context.Context, records []RawRecord, opts ...Option) (*Roster, error) {
	r := &Roster{
		targetVersion: DefaultTargetVersion,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("roster")
	}

	seen := make(map[int]struct{}, len(records))
	for i := range records {
		if err := records[i].validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[records[i].ID]; dup {
			return nil, fmt.Errorf("record %d: %w: %d", i, ErrDuplicateID, records[i].ID)
		}
		seen[records[i].ID] = struct{}{}
	}

	fold := cases.Fold()
	r.entries = make([]entry, 0, len(records))
	r.byID = make(map[int]int, len(records))
	for i := range records {
		rec := &records[i]
		p, err := resolve(rec, r.targetVersion)
		if err != nil {
			r.dropped = append(r.dropped, DropReport{ID: rec.ID, Name: rec.Name, Err: err})
			r.logger.Warn(ctx, "dropping record with unresolvable type",
				logger.Int("id", rec.ID),
				logger.String("name", rec.Name),
				logger.Error(err),
			)
			continue
		}
		r.byID[p.ID] = len(r.entries)
		r.entries = append(r.entries, entry{
			name:    strings.ToLower(p.Name),
			folded:  normalize(fold, p.Name),
			pokemon: p,
		})
	}

	r.logger.Debug(ctx, "roster loaded",
		logger.Int("records", len(records)),
		logger.Int("resolved", len(r.entries)),
		logger.Int("dropped", len(r.dropped)),
		logger.String("target_version", r.targetVersion),
	)
	return r, nil
}

// resolve picks the working type names (current, or the last override
// tagged with target) and maps them into the type universe.
func resolve(rec *RawRecord, target string) (model.Pokemon, error) {
	names := rec.Types
	for _, past := range rec.PastTypes {
		if past.Generation == target {
			names = past.Types
		}
	}

	resolved := make([]typechart.Type, 0, len(names))
	for _, n := range names {
		t, err := typechart.Parse(n)
		if err != nil {
			return model.Pokemon{}, fmt.Errorf("%w: %q on %s (#%d): %w", ErrUnresolvableType, n, rec.Name, rec.ID, err)
		}
		resolved = append(resolved, t)
	}

	if len(resolved) == maxTypes {
		return model.NewDualPokemon(rec.ID, rec.Name, resolved[0], resolved[1]), nil
	}
	return model.NewPokemon(rec.ID, rec.Name, resolved[0]), nil
}

// Len returns the number of resolved Pokemon.
func (r *Roster) Len() int { return len(r.entries) }

// TargetVersion returns the override marker used during resolution.
func (r *Roster) TargetVersion() string { return r.targetVersion }

// Dropped returns the records excluded during resolution.
func (r *Roster) Dropped() []DropReport {
	out := make([]DropReport, len(r.dropped))
	copy(out, r.dropped)
	return out
}

// All returns the resolved Pokemon in source order.
func (r *Roster) All() []model.Pokemon {
	out := make([]model.Pokemon, len(r.entries))
	for i := range r.entries {
		out[i] = r.entries[i].pokemon
	}
	return out
}

// ByID returns the Pokemon with the given pokedex number.
func (r *Roster) ByID(id int) (model.Pokemon, bool) {
	i, ok := r.byID[id]
	if !ok {
		return model.Pokemon{}, false
	}
	return r.entries[i].pokemon, true
}
