package typechart_test

import (
	"errors"
	"testing"

	"github.com/okian/pokelookup/internal/domain/typechart"
	. "github.com/smartystreets/goconvey/convey"
)

// reference is the authored generation-III chart, attacker rows by defender
// columns, in the order normal..dark.
var reference = [17][17]float64{
	{1, 1, 1, 1, 1, 0.5, 1, 0, 0.5, 1, 1, 1, 1, 1, 1, 1, 1},
	{2, 1, 0.5, 0.5, 1, 2, 0.5, 0, 2, 1, 1, 1, 1, 0.5, 2, 1, 2},
	{1, 2, 1, 1, 1, 0.5, 2, 1, 0.5, 1, 1, 2, 0.5, 1, 1, 1, 1},
	{1, 1, 1, 0.5, 0.5, 0.5, 1, 0.5, 0, 1, 1, 2, 1, 1, 1, 1, 1},
	{1, 1, 0, 2, 1, 2, 0.5, 1, 2, 2, 1, 0.5, 2, 1, 1, 1, 1},
	{1, 0.5, 2, 1, 0.5, 1, 2, 1, 0.5, 2, 1, 1, 1, 1, 2, 1, 1},
	{1, 0.5, 0.5, 0.5, 1, 1, 1, 0.5, 0.5, 0.5, 1, 2, 1, 2, 1, 1, 2},
	{0, 1, 1, 1, 1, 1, 1, 2, 0.5, 1, 1, 1, 1, 2, 1, 1, 0.5},
	{1, 1, 1, 1, 1, 2, 1, 1, 0.5, 0.5, 0.5, 1, 0.5, 1, 2, 1, 1},
	{1, 1, 1, 1, 1, 0.5, 2, 1, 2, 0.5, 0.5, 2, 1, 1, 2, 0.5, 1},
	{1, 1, 1, 1, 2, 2, 1, 1, 1, 2, 0.5, 0.5, 1, 1, 1, 0.5, 1},
	{1, 1, 0.5, 0.5, 2, 2, 0.5, 1, 0.5, 0.5, 2, 0.5, 1, 1, 1, 0.5, 1},
	{1, 1, 2, 1, 0, 1, 1, 1, 1, 1, 2, 0.5, 0.5, 1, 1, 0.5, 1},
	{1, 2, 1, 2, 1, 1, 1, 1, 0.5, 1, 1, 1, 1, 0.5, 1, 1, 0},
	{1, 1, 2, 1, 2, 1, 1, 1, 0.5, 0.5, 0.5, 2, 1, 1, 0.5, 2, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 0.5, 1, 1, 1, 1, 1, 1, 2, 1},
	{1, 0.5, 1, 1, 1, 1, 1, 2, 0.5, 1, 1, 1, 1, 2, 1, 1, 0.5},
}

func TestChart(t *testing.T) {
	Convey("Given the generation-III chart", t, func() {
		Convey("Then every cell matches the authored table", func() {
			mismatches := 0
			for a := 0; a < typechart.Count; a++ {
				for d := 0; d < typechart.Count; d++ {
					got := typechart.Lookup(typechart.Type(a), typechart.Type(d)).Float64()
					if got != reference[a][d] {
						mismatches++
						t.Logf("%s vs %s: got %v want %v", typechart.Type(a), typechart.Type(d), got, reference[a][d])
					}
				}
			}
			So(mismatches, ShouldEqual, 0)
		})

		Convey("Then spot checks from the original program hold", func() {
			So(typechart.Lookup(typechart.Ghost, typechart.Normal).Equal(typechart.Immune), ShouldBeTrue)
			So(typechart.Lookup(typechart.Normal, typechart.Ghost).Equal(typechart.Immune), ShouldBeTrue)
			So(typechart.Lookup(typechart.Fighting, typechart.Normal).Equal(typechart.Double), ShouldBeTrue)
			So(typechart.Lookup(typechart.Dark, typechart.Ghost).Equal(typechart.Double), ShouldBeTrue)
			So(typechart.Lookup(typechart.Dark, typechart.Dark).Equal(typechart.Half), ShouldBeTrue)
			So(typechart.Lookup(typechart.Ice, typechart.Steel).Equal(typechart.Half), ShouldBeTrue)
		})

		Convey("Then Row returns a copy in defender order", func() {
			row := typechart.Row(typechart.Electric)
			So(len(row), ShouldEqual, typechart.Count)
			So(row[typechart.Ground].Equal(typechart.Immune), ShouldBeTrue)
			row[typechart.Ground] = typechart.Double
			So(typechart.Lookup(typechart.Electric, typechart.Ground).Equal(typechart.Immune), ShouldBeTrue)
		})
	})
}

func TestUniverse(t *testing.T) {
	Convey("Given the type universe", t, func() {
		Convey("Then it has 17 members with stable ordinals", func() {
			all := typechart.All()
			So(len(all), ShouldEqual, 17)
			for i, tp := range all {
				So(int(tp), ShouldEqual, i)
			}
			So(typechart.Normal, ShouldEqual, typechart.Type(0))
			So(typechart.Dark, ShouldEqual, typechart.Type(16))
		})

		Convey("Then names round trip through Parse", func() {
			for _, tp := range typechart.All() {
				got, err := typechart.Parse(tp.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tp)
			}
		})

		Convey("When parsing with mixed case and whitespace", func() {
			got, err := typechart.Parse("  PsYcHiC ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, typechart.Psychic)
		})

		Convey("When parsing a type outside the universe", func() {
			for _, name := range []string{"fairy", "", "unknown", "shadow"} {
				_, err := typechart.Parse(name)
				So(errors.Is(err, typechart.ErrUnknownType), ShouldBeTrue)
			}
		})

		Convey("When text-decoding a type", func() {
			var tp typechart.Type
			So(tp.UnmarshalText([]byte("Steel")), ShouldBeNil)
			So(tp, ShouldEqual, typechart.Steel)
			b, err := tp.MarshalText()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "steel")
		})

		Convey("Then invalid ordinals are reported", func() {
			bad := typechart.Type(42)
			So(bad.Valid(), ShouldBeFalse)
			So(bad.String(), ShouldEqual, "type(42)")
			_, err := bad.MarshalText()
			So(errors.Is(err, typechart.ErrUnknownType), ShouldBeTrue)
		})
	})
}

func TestMultiplier(t *testing.T) {
	Convey("Given exact multipliers", t, func() {
		Convey("Then products stay exact", func() {
			q := typechart.Half.Mul(typechart.Half)
			So(q.Num(), ShouldEqual, int64(1))
			So(q.Denom(), ShouldEqual, int64(4))
			So(q.IsInteger(), ShouldBeFalse)
			So(typechart.Double.Mul(typechart.Double).Equal(typechart.NewMultiplier(4, 1)), ShouldBeTrue)
			So(typechart.Double.Mul(typechart.Half).Equal(typechart.Neutral), ShouldBeTrue)
			So(typechart.Immune.Mul(typechart.Double).IsInteger(), ShouldBeTrue)
		})

		Convey("Then values are reduced", func() {
			m := typechart.NewMultiplier(6, 12)
			So(m.Equal(typechart.Half), ShouldBeTrue)
			So(m.Num(), ShouldEqual, int64(1))
			So(m.Denom(), ShouldEqual, int64(2))
		})

		Convey("Then the zero value is zero", func() {
			var m typechart.Multiplier
			So(m.Equal(typechart.Immune), ShouldBeTrue)
			So(m.Denom(), ShouldEqual, int64(1))
			So(m.Float64(), ShouldEqual, 0.0)
		})

		Convey("Then ordering and big.Rat conversion agree", func() {
			So(typechart.Half.Less(typechart.Neutral), ShouldBeTrue)
			So(typechart.Double.Less(typechart.Half), ShouldBeFalse)
			So(typechart.Half.Rat().String(), ShouldEqual, "1/2")
		})
	})
}
