package typechart

import "math/big"

// Multiplier is an exact non-negative rational damage factor. The zero value
// is 0/1. Values are always kept reduced with a positive denominator.
type Multiplier struct {
	num int64
	den int64
}

// Common chart values.
var (
	Immune  = NewMultiplier(0, 1)
	Half    = NewMultiplier(1, 2)
	Neutral = NewMultiplier(1, 1)
	Double  = NewMultiplier(2, 1)
)

// NewMultiplier builds num/den in lowest terms. A zero denominator yields 0.
func NewMultiplier(num, den int64) Multiplier {
	if den == 0 || num == 0 {
		return Multiplier{num: 0, den: 1}
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	return Multiplier{num: num / g, den: den / g}
}

// Num returns the reduced numerator.
func (m Multiplier) Num() int64 { return m.norm().num }

// Denom returns the reduced denominator (always >= 1).
func (m Multiplier) Denom() int64 { return m.norm().den }

// Mul returns m*o.
func (m Multiplier) Mul(o Multiplier) Multiplier {
	a, b := m.norm(), o.norm()
	return NewMultiplier(a.num*b.num, a.den*b.den)
}

// IsInteger reports whether the value has no fractional remainder.
func (m Multiplier) IsInteger() bool { return m.norm().den == 1 }

// Equal compares exact values.
func (m Multiplier) Equal(o Multiplier) bool { return m.norm() == o.norm() }

// Less orders by exact value.
func (m Multiplier) Less(o Multiplier) bool {
	a, b := m.norm(), o.norm()
	return a.num*b.den < b.num*a.den
}

// Float64 returns the nearest float64.
func (m Multiplier) Float64() float64 {
	n := m.norm()
	return float64(n.num) / float64(n.den)
}

// Rat returns a fresh big.Rat holding the value.
func (m Multiplier) Rat() *big.Rat {
	n := m.norm()
	return big.NewRat(n.num, n.den)
}

func (m Multiplier) norm() Multiplier {
	if m.den == 0 {
		return Multiplier{num: 0, den: 1}
	}
	return m
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
