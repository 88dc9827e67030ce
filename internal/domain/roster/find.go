package roster

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/okian/pokelookup/internal/domain/model"
)

// MatchKind tells how a query was matched.
type MatchKind string

// Match kinds, in precedence order.
const (
	MatchExactName MatchKind = "exact_name"
	MatchExactID   MatchKind = "exact_id"
	MatchFuzzy     MatchKind = "fuzzy"
)

// Match describes how Find selected its result.
type Match struct {
	Kind  MatchKind
	Score float64 // 1 for exact matches, similarity in [0, 1] for fuzzy ones
}

// Find returns the single best Pokemon for query.
//
// The roster is scanned once. The first record whose name equals the
// lower-cased query, or whose id equals the query parsed as an integer, wins
// immediately. Otherwise the record with the strictly highest name similarity
// is returned, earliest record winning ties. ok is false for an empty roster,
// a blank query, or a best score under the configured floor.
func (r *Roster) Find(query string) (model.Pokemon, Match, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return model.Pokemon{}, Match{}, false
	}
	lowered := strings.ToLower(trimmed)
	id, err := strconv.Atoi(trimmed)
	numeric := err == nil
	folded := normalize(cases.Fold(), trimmed)

	best, bestScore := -1, 0.0
	for i := range r.entries {
		e := &r.entries[i]
		if e.name == lowered {
			return e.pokemon, Match{Kind: MatchExactName, Score: 1}, true
		}
		if numeric && e.pokemon.ID == id {
			return e.pokemon, Match{Kind: MatchExactID, Score: 1}, true
		}
		if score := similarity(folded, e.folded); best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore < r.minSimilarity {
		return model.Pokemon{}, Match{}, false
	}
	return r.entries[best].pokemon, Match{Kind: MatchFuzzy, Score: bestScore}, true
}

// normalize case-folds s and strips all whitespace.
func normalize(fold cases.Caser, s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, fold.String(s))
}

// similarity is a symmetric normalized Levenshtein score in [0, 1].
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
