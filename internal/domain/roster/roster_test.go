package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/roster"
	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var pokemonCmp = cmp.AllowUnexported(model.Pokemon{})

func fixture() []roster.RawRecord {
	return []roster.RawRecord{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}},
		{ID: 6, Name: "charizard", Types: []string{"fire", "flying"}},
		{ID: 25, Name: "pikachu", Types: []string{"electric"}},
		{
			ID: 35, Name: "clefairy", Types: []string{"fairy"},
			PastTypes: []roster.PastTypes{{Generation: "generation-v", Types: []string{"normal"}}},
		},
		{
			ID: 183, Name: "marill", Types: []string{"water", "fairy"},
			PastTypes: []roster.PastTypes{{Generation: "generation-v", Types: []string{"water"}}},
		},
		{ID: 187, Name: "hoppip", Types: []string{"grass", "flying"}},
	}
}

func mustLoad(records []roster.RawRecord, opts ...roster.Option) *roster.Roster {
	r, err := roster.Load(context.Background(), records, opts...)
	So(err, ShouldBeNil)
	return r
}

func TestLoad(t *testing.T) {
	Convey("Given a well-formed dataset", t, func() {
		r := mustLoad(fixture())

		Convey("Then every record resolves", func() {
			So(r.Len(), ShouldEqual, 6)
			So(r.Dropped(), ShouldBeEmpty)
			So(r.TargetVersion(), ShouldEqual, roster.DefaultTargetVersion)
		})

		Convey("Then current types are used when no override targets the version", func() {
			p, ok := r.ByID(1)
			So(ok, ShouldBeTrue)
			So(cmp.Diff(model.NewDualPokemon(1, "bulbasaur", typechart.Grass, typechart.Poison), p, pokemonCmp), ShouldBeEmpty)
		})

		Convey("Then a target-version override replaces the current types", func() {
			p, _ := r.ByID(35)
			So(p.Primary, ShouldEqual, typechart.Normal)
			_, dual := p.Secondary()
			So(dual, ShouldBeFalse)

			m, _ := r.ByID(183)
			So(m.Types(), ShouldResemble, []typechart.Type{typechart.Water})
		})

		Convey("Then All preserves source order", func() {
			all := r.All()
			So(len(all), ShouldEqual, 6)
			So(all[0].Name, ShouldEqual, "bulbasaur")
			So(all[5].Name, ShouldEqual, "hoppip")
		})

		Convey("Then unknown ids are not found", func() {
			_, ok := r.ByID(9999)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given several overrides for the target version", t, func() {
		records := []roster.RawRecord{{
			ID: 10, Name: "shifty", Types: []string{"fairy"},
			PastTypes: []roster.PastTypes{
				{Generation: "generation-v", Types: []string{"normal"}},
				{Generation: "generation-ii", Types: []string{"bug"}},
				{Generation: "generation-v", Types: []string{"ghost", "dark"}},
			},
		}}
		r := mustLoad(records)

		Convey("Then the last matching override wins", func() {
			p, _ := r.ByID(10)
			So(p.Types(), ShouldResemble, []typechart.Type{typechart.Ghost, typechart.Dark})
		})
	})

	Convey("Given a custom target version", t, func() {
		records := []roster.RawRecord{{
			ID: 81, Name: "magnemite", Types: []string{"electric", "steel"},
			PastTypes: []roster.PastTypes{{Generation: "generation-i", Types: []string{"electric"}}},
		}}

		Convey("Then only overrides with that marker apply", func() {
			r := mustLoad(records, roster.WithTargetVersion("generation-i"))
			p, _ := r.ByID(81)
			So(p.Types(), ShouldResemble, []typechart.Type{typechart.Electric})

			def := mustLoad(records)
			p, _ = def.ByID(81)
			So(p.Types(), ShouldResemble, []typechart.Type{typechart.Electric, typechart.Steel})
		})
	})

	Convey("Given a record whose resolved type is outside the universe", t, func() {
		records := append(fixture(), roster.RawRecord{ID: 700, Name: "sylveon", Types: []string{"fairy"}})
		r := mustLoad(records)

		Convey("Then it is dropped and reported while the rest loads", func() {
			So(r.Len(), ShouldEqual, 6)
			dropped := r.Dropped()
			So(len(dropped), ShouldEqual, 1)
			So(dropped[0].ID, ShouldEqual, 700)
			So(errors.Is(dropped[0].Err, roster.ErrUnresolvableType), ShouldBeTrue)
			So(errors.Is(dropped[0].Err, typechart.ErrUnknownType), ShouldBeTrue)
			_, ok := r.ByID(700)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given malformed datasets", t, func() {
		cases := map[string]roster.RawRecord{
			"non-positive id":   {ID: 0, Name: "missingno", Types: []string{"normal"}},
			"blank name":        {ID: 2, Name: "  ", Types: []string{"normal"}},
			"no types":          {ID: 3, Name: "empty"},
			"three types":       {ID: 4, Name: "triple", Types: []string{"fire", "water", "grass"}},
			"unmarked override": {ID: 5, Name: "odd", Types: []string{"normal"}, PastTypes: []roster.PastTypes{{Types: []string{"bug"}}}},
			"empty override":    {ID: 7, Name: "odd", Types: []string{"normal"}, PastTypes: []roster.PastTypes{{Generation: "generation-v"}}},
		}

		Convey("Then the whole load fails without a partial roster", func() {
			for name, bad := range cases {
				r, err := roster.Load(context.Background(), append(fixture(), bad))
				So(r, ShouldBeNil)
				So(errors.Is(err, roster.ErrMalformedRecord), ShouldBeTrue)
				if !errors.Is(err, roster.ErrMalformedRecord) {
					t.Logf("case %q: %v", name, err)
				}
			}
		})

		Convey("Then duplicate ids fail the load", func() {
			r, err := roster.Load(context.Background(), append(fixture(), roster.RawRecord{ID: 25, Name: "raichu", Types: []string{"electric"}}))
			So(r, ShouldBeNil)
			So(errors.Is(err, roster.ErrDuplicateID), ShouldBeTrue)
		})
	})

	Convey("Given an empty dataset", t, func() {
		r := mustLoad(nil)
		So(r.Len(), ShouldEqual, 0)
		So(r.All(), ShouldBeEmpty)
	})
}

func TestFind(t *testing.T) {
	Convey("Given a loaded roster", t, func() {
		r := mustLoad(fixture())

		Convey("When querying an exact name in any case", func() {
			p, m, ok := r.Find("  PikaChu ")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 25)
			So(m.Kind, ShouldEqual, roster.MatchExactName)
			So(m.Score, ShouldEqual, 1.0)
		})

		Convey("When querying a pokedex number", func() {
			p, m, ok := r.Find("1")
			So(ok, ShouldBeTrue)
			So(p.Name, ShouldEqual, "bulbasaur")
			So(m.Kind, ShouldEqual, roster.MatchExactID)
		})

		Convey("When querying a misspelled name", func() {
			p, m, ok := r.Find("charzard")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 6)
			So(m.Kind, ShouldEqual, roster.MatchFuzzy)
			So(m.Score, ShouldBeBetween, 0.8, 1.0)
		})

		Convey("When the misspelling differs only in case and spacing", func() {
			p, m, ok := r.Find("HOP PIP")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 187)
			So(m.Kind, ShouldEqual, roster.MatchFuzzy)
			So(m.Score, ShouldEqual, 1.0)
		})

		Convey("When a number matches no id", func() {
			p, m, ok := r.Find("9999")
			So(ok, ShouldBeTrue)
			So(m.Kind, ShouldEqual, roster.MatchFuzzy)
			So(p.ID, ShouldBeGreaterThan, 0)
		})

		Convey("When the query is blank", func() {
			_, _, ok := r.Find("   ")
			So(ok, ShouldBeFalse)
		})

		Convey("When querying twice", func() {
			a, ma, _ := r.Find("marill")
			b, mb, _ := r.Find("marill")
			So(cmp.Diff(a, b, pokemonCmp), ShouldBeEmpty)
			So(ma, ShouldResemble, mb)
		})
	})

	Convey("Given an exact name later in the roster than a close fuzzy candidate", t, func() {
		r := mustLoad([]roster.RawRecord{
			{ID: 1, Name: "abra", Types: []string{"psychic"}},
			{ID: 2, Name: "abr", Types: []string{"normal"}},
		})

		Convey("Then the exact match wins", func() {
			p, m, ok := r.Find("abr")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 2)
			So(m.Kind, ShouldEqual, roster.MatchExactName)
		})
	})

	Convey("Given a name equal to another record's id", t, func() {
		r := mustLoad([]roster.RawRecord{
			{ID: 7, Name: "squirtle", Types: []string{"water"}},
			{ID: 99, Name: "7", Types: []string{"normal"}},
		})

		Convey("Then the first exact match in scan order wins", func() {
			p, m, ok := r.Find("7")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 7)
			So(m.Kind, ShouldEqual, roster.MatchExactID)
		})
	})

	Convey("Given two records with the same name", t, func() {
		r := mustLoad([]roster.RawRecord{
			{ID: 3, Name: "twin", Types: []string{"fire"}},
			{ID: 4, Name: "twin", Types: []string{"water"}},
		})

		Convey("Then the earliest record short-circuits the scan", func() {
			p, _, _ := r.Find("TWIN")
			So(p.ID, ShouldEqual, 3)
		})
	})

	Convey("Given names differing only in case", t, func() {
		r := mustLoad([]roster.RawRecord{
			{ID: 1, Name: "Pikachu", Types: []string{"electric"}},
			{ID: 2, Name: "pikachu", Types: []string{"electric"}},
		})

		Convey("Then the earliest record matches exactly regardless of case", func() {
			p, m, ok := r.Find("PIKACHU")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 1)
			So(p.Name, ShouldEqual, "Pikachu")
			So(m.Kind, ShouldEqual, roster.MatchExactName)
		})
	})

	Convey("Given fuzzy candidates with equal scores", t, func() {
		r := mustLoad([]roster.RawRecord{
			{ID: 1, Name: "abcx", Types: []string{"fire"}},
			{ID: 2, Name: "abcy", Types: []string{"water"}},
		})

		Convey("Then the earliest candidate is kept", func() {
			p, m, ok := r.Find("abcz")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 1)
			So(m.Score, ShouldEqual, 0.75)
		})
	})

	Convey("Given garbage input and the default floor", t, func() {
		r := mustLoad(fixture())

		Convey("Then some candidate is still returned", func() {
			_, m, ok := r.Find("zzzzzzzzzzzzzzzz")
			So(ok, ShouldBeTrue)
			So(m.Kind, ShouldEqual, roster.MatchFuzzy)
		})
	})

	Convey("Given a similarity floor", t, func() {
		r := mustLoad(fixture(), roster.WithMinSimilarity(0.6))

		Convey("Then weak candidates are rejected", func() {
			_, _, ok := r.Find("zzzzzzzzzzzzzzzz")
			So(ok, ShouldBeFalse)
		})

		Convey("Then close candidates still match", func() {
			p, _, ok := r.Find("pikachoo")
			So(ok, ShouldBeTrue)
			So(p.ID, ShouldEqual, 25)
		})

		Convey("Then exact matches ignore the floor", func() {
			_, m, ok := r.Find("35")
			So(ok, ShouldBeTrue)
			So(m.Kind, ShouldEqual, roster.MatchExactID)
		})
	})

	Convey("Given an empty roster", t, func() {
		r := mustLoad(nil)

		Convey("Then every query is not found", func() {
			for _, q := range []string{"pikachu", "1", "", "???"} {
				_, _, ok := r.Find(q)
				So(ok, ShouldBeFalse)
			}
		})
	})
}
