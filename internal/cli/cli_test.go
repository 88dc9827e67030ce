package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pokelookup/internal/adapters/http/api"
	service "github.com/okian/pokelookup/internal/app"
	"github.com/okian/pokelookup/internal/cli"
	"github.com/okian/pokelookup/internal/config"
	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/internal/domain/types"
	"github.com/okian/pokelookup/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var docs = map[string]string{
	"1":  `{"id":1,"name":"bulbasaur","types":[{"slot":2,"type":{"name":"poison"}},{"slot":1,"type":{"name":"grass"}}],"past_types":[]}`,
	"6":  `{"id":6,"name":"charizard","types":[{"slot":1,"type":{"name":"fire"}},{"slot":2,"type":{"name":"flying"}}],"past_types":[]}`,
	"25": `{"id":25,"name":"pikachu","types":[{"slot":1,"type":{"name":"electric"}}],"past_types":[]}`,
}

func writeDataset(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "pokemon.json")
	body := "[" + docs["1"] + "," + docs["6"] + "," + docs["25"] + "]"
	So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
	return path
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(stdin string, args ...string) result {
	cmd := cli.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestLookupCommand(t *testing.T) {
	Convey("Given a dataset file", t, func() {
		dataset := writeDataset(t)
		cache := filepath.Join(t.TempDir(), "cache.db")
		base := []string{"--dataset", dataset, "--cache", cache}

		Convey("When looking up by name", func() {
			r := run("", append([]string{"lookup", "Bulbasaur"}, base...)...)

			Convey("Then the card and table are printed", func() {
				So(r.err, ShouldBeNil)
				So(r.stdout, ShouldStartWith, "No. 1\nBulbasaur\nGrass | Poison\n")
				So(r.stdout, ShouldContainSubstring, "Fire      2\n")
				So(r.stdout, ShouldContainSubstring, "Water     1/2\n")
				So(r.stdout, ShouldNotContainSubstring, "Closest match")
			})
		})

		Convey("When the name is misspelled", func() {
			r := run("", append([]string{"lookup", "charzard"}, base...)...)
			So(r.err, ShouldBeNil)
			So(r.stdout, ShouldStartWith, `Closest match for "charzard"`)
			So(r.stdout, ShouldContainSubstring, "Charizard\nFire | Flying\n")
			So(r.stdout, ShouldContainSubstring, "Rock      4\n")
		})

		Convey("When asking for one attacker in decimal style", func() {
			r := run("", append([]string{"lookup", "6", "--type", "FIRE", "--style", "decimal"}, base...)...)
			So(r.err, ShouldBeNil)
			So(r.stdout, ShouldEqual, "Fire vs Charizard (Fire | Flying)\n  Fire      0.5\n  Flying    1\n  Overall   0.5\n")
		})

		Convey("When asking for JSON", func() {
			r := run("", append([]string{"lookup", "25", "--json"}, base...)...)
			So(r.err, ShouldBeNil)
			var res types.LookupResult
			So(json.Unmarshal([]byte(r.stdout), &res), ShouldBeNil)
			So(res.Pokemon.Name, ShouldEqual, "pikachu")
			So(res.Match.Kind, ShouldEqual, "exact_id")
			So(res.Effectiveness[typechart.Ground].Value, ShouldEqual, "2")
		})

		Convey("When the attacker is not a type", func() {
			r := run("", append([]string{"lookup", "25", "--type", "fairy"}, base...)...)
			So(errors.Is(r.err, typechart.ErrUnknownType), ShouldBeTrue)
		})

		Convey("When nothing is similar enough", func() {
			r := run("", append([]string{"lookup", "zzzzzz", "--min-similarity", "0.9"}, base...)...)
			So(errors.Is(r.err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When no argument is given", func() {
			r := run("", append([]string{"lookup"}, base...)...)
			So(r.err, ShouldNotBeNil)
		})
	})

	Convey("Given an empty cache and no dataset", t, func() {
		cache := filepath.Join(t.TempDir(), "cache.db")
		r := run("", "lookup", "pikachu", "--cache", cache)

		Convey("Then the user is told to fetch first", func() {
			So(errors.Is(r.err, cli.ErrEmptyCache), ShouldBeTrue)
		})
	})

	Convey("Given an invalid style", t, func() {
		r := run("", "chart", "--style", "roman")
		So(r.err, ShouldNotBeNil)
	})
}

func TestREPLCommand(t *testing.T) {
	Convey("Given an interactive session", t, func() {
		dataset := writeDataset(t)
		cache := filepath.Join(t.TempDir(), "cache.db")
		input := "pikachu\nmissingno\nquit\nbulbasaur\n"
		r := run(input, "repl", "--dataset", dataset, "--cache", cache, "--min-similarity", "0.8")

		Convey("Then each line is answered until quit", func() {
			So(r.err, ShouldBeNil)
			So(strings.Count(r.stdout, "What pokemon would you like to lookup?"), ShouldEqual, 3)
			So(r.stdout, ShouldContainSubstring, "No. 25\nPikachu\nElectric\n")
			So(r.stdout, ShouldContainSubstring, "Pokemon 'missingno' not found. Sorry!\n")
			So(r.stdout, ShouldNotContainSubstring, "Bulbasaur")
		})
	})

	Convey("Given input that ends without quit", t, func() {
		dataset := writeDataset(t)
		cache := filepath.Join(t.TempDir(), "cache.db")
		r := run("25", "repl", "--dataset", dataset, "--cache", cache)

		Convey("Then the loop stops cleanly at end of input", func() {
			So(r.err, ShouldBeNil)
			So(r.stdout, ShouldContainSubstring, "Pikachu")
		})
	})
}

func TestChartCommand(t *testing.T) {
	Convey("Given the chart command", t, func() {
		r := run("", "chart", "--style", "decimal")
		So(r.err, ShouldBeNil)
		lines := strings.Split(strings.TrimSuffix(r.stdout, "\n"), "\n")

		Convey("Then there is a header and one row per attacker", func() {
			So(len(lines), ShouldEqual, typechart.Count+1)
			So(lines[0], ShouldContainSubstring, " Nor  Fig")
			So(lines[1+int(typechart.Normal)], ShouldStartWith, "Normal")
			So(lines[1+int(typechart.Ghost)], ShouldContainSubstring, "0.5")
		})
	})
}

// pokeAPI serves the fixture documents and 404s everything else.
func pokeAPI() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pokemon/{id}", func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})
	return httptest.NewServer(mux)
}

func TestFetchAndExportCommands(t *testing.T) {
	Convey("Given a PokeAPI stand-in", t, func() {
		upstream := pokeAPI()
		defer upstream.Close()
		cache := filepath.Join(t.TempDir(), "cache.db")
		base := []string{"--cache", cache, "--api-url", upstream.URL}

		Convey("When fetching a range with a gap", func() {
			r := run("", append([]string{"fetch", "--from", "1", "--to", "3", "--workers", "2"}, base...)...)

			Convey("Then the missing id is reported and the rest cached", func() {
				So(r.err, ShouldBeNil)
				So(r.stdout, ShouldStartWith, "fetched 1/3 documents")
				So(r.stdout, ShouldContainSubstring, "failed: 2, 3\n")

				lookup := run("", append([]string{"lookup", "1"}, base...)...)
				So(lookup.err, ShouldBeNil)
				So(lookup.stdout, ShouldStartWith, "No. 1\nBulbasaur\n")
			})
		})

		Convey("When exporting after a fetch", func() {
			So(run("", append([]string{"fetch", "--from", "1", "--to", "25"}, base...)...).err, ShouldBeNil)
			out := filepath.Join(t.TempDir(), "export.json")
			r := run("", append([]string{"export", out}, base...)...)

			Convey("Then the file is a dataset usable with --dataset", func() {
				So(r.err, ShouldBeNil)
				So(r.stderr, ShouldContainSubstring, "exported 3 documents to "+out)

				other := filepath.Join(t.TempDir(), "other.db")
				lookup := run("", "lookup", "pikachu", "--dataset", out, "--cache", other)
				So(lookup.err, ShouldBeNil)
				So(lookup.stdout, ShouldStartWith, "No. 25\n")
			})
		})

		Convey("When the export file cannot be written", func() {
			So(run("", append([]string{"fetch", "--from", "1", "--to", "1"}, base...)...).err, ShouldBeNil)
			out := filepath.Join(t.TempDir(), "missing", "export.json")
			r := run("", append([]string{"export", out}, base...)...)

			Convey("Then the command fails without claiming success", func() {
				So(r.err, ShouldNotBeNil)
				So(r.stderr, ShouldNotContainSubstring, "exported")
			})
		})

		Convey("When exporting to stdout", func() {
			So(run("", append([]string{"fetch", "--from", "6", "--to", "6"}, base...)...).err, ShouldBeNil)
			r := run("", append([]string{"export"}, base...)...)
			So(r.err, ShouldBeNil)
			var arr []map[string]any
			So(json.Unmarshal([]byte(r.stdout), &arr), ShouldBeNil)
			So(len(arr), ShouldEqual, 1)
			So(arr[0]["name"], ShouldEqual, "charizard")
		})
	})

	Convey("Given an empty cache with refresh on empty", t, func() {
		upstream := pokeAPI()
		defer upstream.Close()
		t.Setenv("POKELOOKUP_REFRESH_ON_EMPTY", "true")
		t.Setenv("POKELOOKUP_POKEDEX_END", "6")
		cache := filepath.Join(t.TempDir(), "cache.db")

		Convey("Then the first lookup fetches the range", func() {
			r := run("", "lookup", "charizard", "--cache", cache, "--api-url", upstream.URL)
			So(r.err, ShouldBeNil)
			So(r.stdout, ShouldStartWith, "No. 6\nCharizard\n")
		})
	})

	Convey("Given an upstream that has none of the requested ids", t, func() {
		upstream := pokeAPI()
		defer upstream.Close()
		cache := filepath.Join(t.TempDir(), "cache.db")

		Convey("When fetching the range", func() {
			r := run("", "fetch", "--from", "2", "--to", "4", "--cache", cache, "--api-url", upstream.URL)

			Convey("Then nothing is counted as fetched", func() {
				So(r.err, ShouldBeNil)
				So(r.stdout, ShouldStartWith, "fetched 0/3 documents")
				So(r.stdout, ShouldContainSubstring, "failed: 2, 3, 4\n")
			})
		})

		Convey("When the roster is loaded with refresh on empty", func() {
			cfg := config.New()
			cfg.CachePath = cache
			cfg.APIBaseURL = upstream.URL
			cfg.PokedexStart, cfg.PokedexEnd = 2, 4
			cfg.FetchRetries = 0
			cfg.RefreshOnEmpty = true
			rt, err := cli.Open(context.Background(), cfg)
			So(err, ShouldBeNil)
			defer rt.Close()

			err = rt.LoadRoster(context.Background())

			Convey("Then the empty cache is reported and no roster is installed", func() {
				So(errors.Is(err, cli.ErrEmptyCache), ShouldBeTrue)
				So(rt.Service.Ready(), ShouldBeFalse)
			})
		})
	})
}

func TestProbeCommand(t *testing.T) {
	Convey("Given a running API server", t, func() {
		dataset := writeDataset(t)
		f, err := os.Open(dataset)
		So(err, ShouldBeNil)
		defer f.Close()

		svc := service.New()
		So(svc.LoadDataset(context.Background(), f), ShouldBeNil)
		mux := http.NewServeMux()
		api.NewServer(svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When every query resolves", func() {
			r := run("", "probe", "--url", srv.URL, "1", "6", "pikachu", "mr mime")

			Convey("Then the run passes", func() {
				So(r.err, ShouldBeNil)
				So(r.stdout, ShouldStartWith, "probed 4 queries")
				So(r.stdout, ShouldContainSubstring, "4 ok, 0 failed")
			})
		})

		Convey("When a number is not in the roster", func() {
			r := run("", "probe", "--url", srv.URL, "1", "151")

			Convey("Then the fuzzy fallback is reported as a failure", func() {
				So(errors.Is(r.err, cli.ErrProbeFailed), ShouldBeTrue)
				So(r.stdout, ShouldContainSubstring, "1 ok, 1 failed")
				So(r.stdout, ShouldContainSubstring, `"151": resolved to #`)
			})
		})
	})

	Convey("Given a server without a roster", t, func() {
		mux := http.NewServeMux()
		api.NewServer(service.New()).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		r := run("", "probe", "--url", srv.URL, "1")
		So(errors.Is(r.err, cli.ErrProbeFailed), ShouldBeTrue)
		So(r.stdout, ShouldContainSubstring, "0 ok")
	})
}
