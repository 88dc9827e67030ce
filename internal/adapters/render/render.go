// Package render turns domain values into text for the CLI and HTTP layers.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/typechart"
)

// Style selects how non-integer multipliers are written.
type Style string

// Supported styles. Integer-valued multipliers render the same in both.
const (
	StyleFraction Style = "fraction" // 1/2, 1/4
	StyleDecimal  Style = "decimal"  // 0.5, 0.25
)

// ParseStyle validates a style name; empty selects StyleFraction.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleFraction:
		return StyleFraction, nil
	case StyleDecimal:
		return StyleDecimal, nil
	default:
		return "", fmt.Errorf("unknown fraction style %q", s)
	}
}

// Multiplier formats m. Values that are mathematically integers drop the
// fractional part ("0", "1", "4"); others keep their exact value.
func Multiplier(m typechart.Multiplier, style Style) string {
	if m.IsInteger() {
		return strconv.FormatInt(m.Num(), 10)
	}
	if style == StyleDecimal {
		// chart denominators are powers of two, so this is exact
		return m.Rat().FloatString(decimals(m.Denom()))
	}
	return strconv.FormatInt(m.Num(), 10) + "/" + strconv.FormatInt(m.Denom(), 10)
}

// decimals returns the digits needed to print 1/den exactly when den is a
// power of two, capped for other denominators.
func decimals(den int64) int {
	const maxDigits = 6
	n := 0
	for den > 1 && den%2 == 0 && n < maxDigits {
		den /= 2
		n++
	}
	if den != 1 {
		return maxDigits
	}
	return n
}

// Title display-cases a canonical lowercase name ("mr-mime" -> "Mr-Mime").
func Title(name string) string {
	return cases.Title(language.English).String(name)
}

// TypeLine renders "Grass | Poison" or "Electric".
func TypeLine(p model.Pokemon) string {
	parts := make([]string, 0, 2)
	for _, t := range p.Types() {
		parts = append(parts, Title(t.String()))
	}
	return strings.Join(parts, " | ")
}

const rule = "------------------------------"

// Card renders the pokedex card:
//
//	No. 1
//	Bulbasaur
//	Grass | Poison
//	------------------------------
func Card(p model.Pokemon) string {
	var b strings.Builder
	fmt.Fprintf(&b, "No. %d\n", p.ID)
	b.WriteString(Title(p.Name) + "\n")
	b.WriteString(TypeLine(p) + "\n")
	b.WriteString(rule + "\n")
	return b.String()
}

// Table renders one "attacker  multiplier" line per entry of vector, which
// must be in universe order.
func Table(vector []typechart.Multiplier, style Style) string {
	var b strings.Builder
	for i, m := range vector {
		fmt.Fprintf(&b, "%-9s %s\n", Title(typechart.Type(i).String()), Multiplier(m, style))
	}
	return b.String()
}
