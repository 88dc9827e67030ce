// Package service wires the roster, the document cache and the fetch
// pipeline into the operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pokelookup/internal/adapters/mq/queue"
	"github.com/okian/pokelookup/internal/adapters/mq/worker"
	"github.com/okian/pokelookup/internal/adapters/pokeapi"
	"github.com/okian/pokelookup/internal/adapters/render"
	"github.com/okian/pokelookup/internal/adapters/repository"
	"github.com/okian/pokelookup/internal/domain/effectiveness"
	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/roster"
	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/internal/domain/types"
	"github.com/okian/pokelookup/pkg/logger"
	"github.com/okian/pokelookup/pkg/metrics"
)

// Roster sources reported in Stats.
const (
	SourceCache   = "cache"
	SourceDataset = "dataset"
)

const (
	defaultPokedexStart = 1
	defaultPokedexEnd   = 386
	defaultFetchRetries = 2
	defaultFetchBackoff = 250 * time.Millisecond
)

// snapshot is the unit swapped on reload. Readers load it once per call.
type snapshot struct {
	roster   *roster.Roster
	source   string
	loadedAt time.Time
}

// Service implements the lookup operations.
type Service struct {
	// reloadMu serialises Reload, LoadDataset and Refresh. Lookups never take it.
	reloadMu sync.Mutex
	current  atomic.Pointer[snapshot]
	reloads  atomic.Int64

	store   repository.Store
	fetcher worker.Fetcher
	calc    *effectiveness.Calculator

	targetVersion string
	minSimilarity float64
	pokedexStart  int
	pokedexEnd    int
	fetchWorkers  int
	fetchRetries  int
	fetchBackoff  time.Duration
	style         render.Style

	logger logger.Logger
}

// New constructs a Service. No roster is loaded until Reload or LoadDataset.
func New(opts ...Option) *Service {
	s := &Service{
		calc:          effectiveness.New(),
		targetVersion: roster.DefaultTargetVersion,
		pokedexStart:  defaultPokedexStart,
		pokedexEnd:    defaultPokedexEnd,
		fetchWorkers:  runtime.NumCPU(),
		fetchRetries:  defaultFetchRetries,
		fetchBackoff:  defaultFetchBackoff,
		style:         render.StyleFraction,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Ready reports whether a roster has been installed.
func (s *Service) Ready() bool {
	return s.current.Load() != nil
}

// Roster returns the active roster, or ErrRosterNotReady.
func (s *Service) Roster() (*roster.Roster, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrRosterNotReady
	}
	return snap.roster, nil
}

// Reload rebuilds the roster from every cached document and swaps it in.
// On failure the previous roster stays active.
func (s *Service) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	docs, err := s.store.All(ctx)
	if err != nil {
		metrics.RecordReload(err)
		return fmt.Errorf("reload: %w", err)
	}

	records := make([]roster.RawRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := pokeapi.Decode(d.Body)
		if err != nil {
			metrics.RecordReload(err)
			return fmt.Errorf("reload: cached #%d: %w", d.ID, err)
		}
		records = append(records, rec)
	}
	return s.install(ctx, records, SourceCache)
}

// LoadDataset builds the roster from a pokemon.json dataset instead of the
// cache.
func (s *Service) LoadDataset(ctx context.Context, r io.Reader) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	records, err := pokeapi.DecodeDataset(r)
	if err != nil {
		metrics.RecordReload(err)
		return fmt.Errorf("load dataset: %w", err)
	}
	return s.install(ctx, records, SourceDataset)
}

func (s *Service) install(ctx context.Context, records []roster.RawRecord, source string) error {
	r, err := roster.Load(ctx, records,
		roster.WithTargetVersion(s.targetVersion),
		roster.WithMinSimilarity(s.minSimilarity),
		roster.WithLogger(s.logger.Named("roster")),
	)
	metrics.RecordReload(err)
	if err != nil {
		s.logger.Error(ctx, "roster load failed", logger.String("source", source), logger.Error(err))
		return err
	}

	s.current.Store(&snapshot{roster: r, source: source, loadedAt: time.Now()})
	s.reloads.Add(1)
	metrics.UpdateRosterSize(r.Len())
	metrics.UpdateDroppedRecords(len(r.Dropped()))
	s.logger.Info(ctx, "roster installed",
		logger.String("source", source),
		logger.Int("size", r.Len()),
		logger.Int("dropped", len(r.Dropped())),
		logger.String("target_version", r.TargetVersion()),
	)
	return nil
}

// Refresh downloads the configured pokedex range into the cache through the
// fetch pipeline and reloads the roster once anything was fetched. Failed ids
// are reported, not fatal.
func (s *Service) Refresh(ctx context.Context) (types.RefreshReport, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.store == nil {
		return types.RefreshReport{}, ErrNoStore
	}
	if s.fetcher == nil {
		return types.RefreshReport{}, ErrNoFetcher
	}

	start := time.Now()
	requested := s.pokedexEnd - s.pokedexStart + 1
	q := queue.NewInMemoryQueue(queue.WithCapacity(requested))
	pool := worker.NewPool(s.fetchWorkers, q, s.fetcher, s.store,
		worker.WithRetries(s.fetchRetries),
		worker.WithBackoff(s.fetchBackoff),
		worker.WithRetryable(pokeapi.Retryable),
	)

	s.logger.Info(ctx, "refresh started",
		logger.Int("from", s.pokedexStart),
		logger.Int("to", s.pokedexEnd),
		logger.Int("workers", s.fetchWorkers),
	)
	pool.Start(ctx)
	for id := s.pokedexStart; id <= s.pokedexEnd; id++ {
		if !q.Enqueue(ctx, model.FetchJob{ID: id}) {
			_ = pool.Shutdown(context.WithoutCancel(ctx))
			return types.RefreshReport{}, fmt.Errorf("refresh: enqueue #%d rejected", id)
		}
	}
	_ = q.Close()
	if err := pool.Wait(ctx); err != nil {
		_ = pool.Shutdown(context.WithoutCancel(ctx))
		return types.RefreshReport{}, fmt.Errorf("refresh: %w", err)
	}

	rep := pool.Report()
	report := types.RefreshReport{
		Requested: requested,
		Processed: rep.Processed,
		Failed:    rep.Failed,
		Duration:  time.Since(start),
	}
	s.logger.Info(ctx, "refresh finished",
		logger.Int("processed", report.Processed),
		logger.Int("failed", len(report.Failed)),
		logger.Duration("duration", report.Duration),
	)
	if len(report.Failed) > 0 {
		s.logger.Warn(ctx, "some documents were not fetched", logger.Any("ids", report.Failed))
	}

	// Nothing new reached the cache, so the active roster (or its absence)
	// stays as it is.
	if report.Processed == 0 {
		return report, nil
	}
	if err := s.reloadLocked(ctx); err != nil {
		return report, err
	}
	return report, nil
}

// EmptyCache reports whether the cache holds no documents.
func (s *Service) EmptyCache(ctx context.Context) (bool, error) {
	if s.store == nil {
		return true, ErrNoStore
	}
	n, err := s.store.Count(ctx)
	return n == 0, err
}

func (s *Service) find(query string) (model.Pokemon, roster.Match, error) {
	snap := s.current.Load()
	if snap == nil {
		return model.Pokemon{}, roster.Match{}, ErrRosterNotReady
	}

	start := time.Now()
	p, m, ok := snap.roster.Find(query)
	if !ok {
		metrics.RecordLookup("miss", time.Since(start))
		return model.Pokemon{}, roster.Match{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}
	metrics.RecordLookup(string(m.Kind), time.Since(start))
	return p, m, nil
}

// Resolve returns the domain record behind query, for callers that render
// it themselves.
func (s *Service) Resolve(_ context.Context, query string) (model.Pokemon, roster.Match, error) {
	return s.find(query)
}

// Vector returns the raw effectiveness vector of p in universe order.
func (s *Service) Vector(p model.Pokemon) []typechart.Multiplier {
	return s.calc.Vector(p)
}

// Lookup resolves query and returns its full effectiveness vector.
func (s *Service) Lookup(ctx context.Context, query string) (types.LookupResult, error) {
	p, m, err := s.find(query)
	if err != nil {
		return types.LookupResult{}, err
	}

	vec := s.calc.Vector(p)
	out := make([]types.Multiplier, len(vec))
	for i, mult := range vec {
		out[i] = s.multiplier(typechart.Type(i), mult)
	}
	s.logger.Debug(ctx, "lookup",
		logger.String("query", query),
		logger.Int("id", p.ID),
		logger.String("kind", string(m.Kind)),
		logger.Float64("score", m.Score),
	)
	return types.LookupResult{
		Query:         query,
		Pokemon:       pokemonView(p),
		Match:         matchView(m),
		Effectiveness: out,
	}, nil
}

// Effectiveness resolves query and explains one attacker against it.
func (s *Service) Effectiveness(ctx context.Context, query, attackerName string) (types.Breakdown, error) {
	attacker, err := typechart.Parse(attackerName)
	if err != nil {
		return types.Breakdown{}, err
	}
	p, m, err := s.find(query)
	if err != nil {
		return types.Breakdown{}, err
	}

	b := s.calc.Explain(attacker, p)
	out := types.Breakdown{
		Query:    query,
		Pokemon:  pokemonView(p),
		Match:    matchView(m),
		Attacker: attacker.String(),
		Primary:  render.Multiplier(b.Primary, s.style),
		Overall:  render.Multiplier(b.Overall, s.style),
		Float:    b.Overall.Float64(),
	}
	if b.HasSecondary {
		out.Secondary = render.Multiplier(b.Secondary, s.style)
	}
	return out, nil
}

// Types returns the attribute universe in canonical order.
func (s *Service) Types() []string {
	return typechart.Names()
}

// Chart returns the formatted attacker x defender matrix.
func (s *Service) Chart() types.Chart {
	all := typechart.All()
	rows := make([][]string, len(all))
	for i, attacker := range all {
		row := typechart.Row(attacker)
		rows[i] = make([]string, len(row))
		for j, m := range row {
			rows[i][j] = render.Multiplier(m, s.style)
		}
	}
	return types.Chart{Types: typechart.Names(), Rows: rows}
}

// Style returns the multiplier rendering style.
func (s *Service) Style() render.Style { return s.style }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	st := types.Stats{
		TargetVersion: s.targetVersion,
		MinSimilarity: s.minSimilarity,
		Reloads:       s.reloads.Load(),
		PokedexStart:  s.pokedexStart,
		PokedexEnd:    s.pokedexEnd,
		FractionStyle: string(s.style),
	}
	if snap := s.current.Load(); snap != nil {
		st.Ready = true
		st.Source = snap.source
		st.RosterSize = snap.roster.Len()
		st.Dropped = len(snap.roster.Dropped())
		st.LastReload = snap.loadedAt
	}
	if s.store != nil {
		if n, err := s.store.Count(ctx); err == nil {
			st.CachedDocs = n
		} else {
			s.logger.Warn(ctx, "cache count failed", logger.Error(err))
		}
	}
	return st
}

func (s *Service) multiplier(attacker typechart.Type, m typechart.Multiplier) types.Multiplier {
	return types.Multiplier{
		Attacker: attacker.String(),
		Value:    render.Multiplier(m, s.style),
		Float:    m.Float64(),
	}
}

func pokemonView(p model.Pokemon) types.Pokemon {
	names := make([]string, 0, 2)
	for _, t := range p.Types() {
		names = append(names, t.String())
	}
	return types.Pokemon{
		ID:          p.ID,
		Name:        p.Name,
		DisplayName: render.Title(p.Name),
		Types:       names,
	}
}

func matchView(m roster.Match) types.Match {
	return types.Match{Kind: string(m.Kind), Score: m.Score}
}
