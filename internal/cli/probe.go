package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/internal/domain/types"
	"github.com/okian/pokelookup/pkg/logger"
)

// ErrProbeFailed is returned when any probed query misbehaves.
var ErrProbeFailed = errors.New("probe failed")

// probeConfig drives one probe run against a live server.
type probeConfig struct {
	BaseURL string
	Queries []string
	Workers int
	Timeout time.Duration
}

// probeStats summarises a probe run.
type probeStats struct {
	Queries  int
	OK       int
	Failures []string
	Duration time.Duration
}

func (a *app) probeCommand() *cobra.Command {
	var (
		baseURL string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "probe [query...]",
		Short: "Check a running server: readiness, then every query answers with a full vector",
		Long: `Probe a running pokelookup server. Without queries, every pokedex number in
the configured range is probed; numeric queries must resolve to that exact
number.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := probeConfig{
				BaseURL: strings.TrimRight(baseURL, "/"),
				Queries: args,
				Workers: workers,
				Timeout: a.cfg.HTTPTimeout(),
			}
			if len(pc.Queries) == 0 {
				for id := a.cfg.PokedexStart; id <= a.cfg.PokedexEnd; id++ {
					pc.Queries = append(pc.Queries, strconv.Itoa(id))
				}
			}

			stats, err := runProbe(cmd.Context(), pc)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "probed %d queries in %s: %d ok, %d failed\n",
				stats.Queries, stats.Duration.Round(time.Millisecond), stats.OK, len(stats.Failures))
			for _, f := range stats.Failures {
				fmt.Fprintf(out, "  %s\n", f)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:9080", "base URL of the server")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU()*2, "concurrent requests")
	return cmd
}

// runProbe checks readiness and then issues every query concurrently.
// Per-query failures are collected; transport failure of the readiness
// check aborts the run.
func runProbe(ctx context.Context, pc probeConfig) (probeStats, error) {
	log := logger.Get().Named("probe")
	client := &http.Client{Timeout: pc.Timeout}
	start := time.Now()
	stats := probeStats{Queries: len(pc.Queries)}

	if err := checkReady(ctx, client, pc.BaseURL); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(pc.Workers, 1))
	for _, q := range pc.Queries {
		g.Go(func() error {
			err := probeQuery(gctx, client, pc.BaseURL, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failures = append(stats.Failures, fmt.Sprintf("%q: %v", q, err))
				log.Debug(gctx, "probe failed", logger.String("query", q), logger.Error(err))
				return nil
			}
			stats.OK++
			return nil
		})
	}
	_ = g.Wait()
	stats.Duration = time.Since(start)

	if len(stats.Failures) > 0 {
		return stats, fmt.Errorf("%w: %d of %d queries", ErrProbeFailed, len(stats.Failures), stats.Queries)
	}
	return stats, ctx.Err()
}

func checkReady(ctx context.Context, client *http.Client, base string) error {
	resp, err := get(ctx, client, base+"/readyz")
	if err != nil {
		return fmt.Errorf("readiness: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: server not ready (%d)", ErrProbeFailed, resp.StatusCode)
	}
	return nil
}

// probeQuery verifies one lookup: 200, a complete vector in universe order,
// and for numeric queries an exact id match.
func probeQuery(ctx context.Context, client *http.Client, base, query string) error {
	resp, err := get(ctx, client, base+"/pokemon/"+url.PathEscape(query))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var res types.LookupResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(res.Effectiveness) != typechart.Count {
		return fmt.Errorf("vector has %d entries, want %d", len(res.Effectiveness), typechart.Count)
	}
	for i, m := range res.Effectiveness {
		if want := typechart.Type(i).String(); m.Attacker != want {
			return fmt.Errorf("entry %d is %q, want %q", i, m.Attacker, want)
		}
	}
	if id, err := strconv.Atoi(query); err == nil && id > 0 && res.Pokemon.ID != id {
		return fmt.Errorf("resolved to #%d (%s)", res.Pokemon.ID, res.Match.Kind)
	}
	return nil
}

func get(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}
