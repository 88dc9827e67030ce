// Package types contains the result shapes shared by the service, the HTTP
// API and the CLI.
package types

import "time"

// Pokemon is a resolved entity as presented to callers.
type Pokemon struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Types       []string `json:"types"`
}

// Match describes how a query was resolved.
type Match struct {
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
}

// Multiplier is one attacker's effectiveness. Value follows the display
// rule (integers without a fractional part); Float is the numeric value.
type Multiplier struct {
	Attacker string  `json:"attacker"`
	Value    string  `json:"value"`
	Float    float64 `json:"float"`
}

// LookupResult is a resolved query with its full effectiveness vector in
// universe order.
type LookupResult struct {
	Query         string       `json:"query"`
	Pokemon       Pokemon      `json:"pokemon"`
	Match         Match        `json:"match"`
	Effectiveness []Multiplier `json:"effectiveness"`
}

// Breakdown is a single attacker against a resolved query.
type Breakdown struct {
	Query     string  `json:"query"`
	Pokemon   Pokemon `json:"pokemon"`
	Match     Match   `json:"match"`
	Attacker  string  `json:"attacker"`
	Primary   string  `json:"primary"`
	Secondary string  `json:"secondary,omitempty"`
	Overall   string  `json:"overall"`
	Float     float64 `json:"float"`
}

// Chart is the formatted attacker x defender matrix.
type Chart struct {
	Types []string   `json:"types"`
	Rows  [][]string `json:"rows"`
}

// RefreshReport summarises one fetch of the pokedex range.
type RefreshReport struct {
	Requested int           `json:"requested"`
	Processed int           `json:"processed"`
	Failed    []int         `json:"failed"`
	Duration  time.Duration `json:"duration_ns"`
}

// Stats is the service snapshot served by /stats.
type Stats struct {
	Ready         bool      `json:"ready"`
	Source        string    `json:"source,omitempty"`
	TargetVersion string    `json:"target_version"`
	MinSimilarity float64   `json:"min_similarity"`
	RosterSize    int       `json:"roster_size"`
	Dropped       int       `json:"dropped"`
	CachedDocs    int       `json:"cached_documents"`
	Reloads       int64     `json:"reloads"`
	LastReload    time.Time `json:"last_reload"`
	PokedexStart  int       `json:"pokedex_start"`
	PokedexEnd    int       `json:"pokedex_end"`
	FractionStyle string    `json:"fraction_style"`
}
