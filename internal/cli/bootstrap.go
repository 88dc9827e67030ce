// Package cli implements the pokelookup command line and the runtime wiring
// shared with the HTTP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okian/pokelookup/internal/adapters/pokeapi"
	"github.com/okian/pokelookup/internal/adapters/render"
	"github.com/okian/pokelookup/internal/adapters/repository"
	service "github.com/okian/pokelookup/internal/app"
	"github.com/okian/pokelookup/internal/config"
	"github.com/okian/pokelookup/pkg/logger"
)

// Runtime bundles a configured Service with the resources it owns.
type Runtime struct {
	Config  *config.Config
	Service *service.Service
	Store   *repository.SQLiteStore
	Client  *pokeapi.Client

	logger logger.Logger
}

// Open builds the document cache, the upstream client and the service from
// cfg. No roster is loaded; see LoadRoster.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	style, err := render.ParseStyle(cfg.FractionStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	log := logger.Get()

	store, err := repository.OpenSQLite(ctx, cfg.CachePath, repository.WithLogger(log.Named("cache")))
	if err != nil {
		return nil, err
	}
	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.APIBaseURL),
		pokeapi.WithTimeout(cfg.HTTPTimeout()),
	)
	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithStore(store),
		service.WithFetcher(client),
		service.WithTargetVersion(cfg.TargetVersion),
		service.WithMinSimilarity(cfg.MinSimilarity),
		service.WithPokedexRange(cfg.PokedexStart, cfg.PokedexEnd),
		service.WithFetchWorkers(cfg.FetchWorkers),
		service.WithFetchRetries(cfg.FetchRetries),
		service.WithFractionStyle(style),
	)
	return &Runtime{Config: cfg, Service: svc, Store: store, Client: client, logger: log}, nil
}

// LoadRoster installs the first roster: from the dataset file when one is
// configured, otherwise from the cache, fetching first when the cache is
// empty and refresh_on_empty is set.
func (rt *Runtime) LoadRoster(ctx context.Context) error {
	if path := rt.Config.DatasetPath; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return rt.Service.LoadDataset(ctx, f)
	}

	empty, err := rt.Service.EmptyCache(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return rt.Service.Reload(ctx)
	}
	if !rt.Config.RefreshOnEmpty {
		return ErrEmptyCache
	}

	rt.logger.Info(ctx, "cache empty, fetching pokedex", logger.String("api", rt.Client.BaseURL()))
	report, err := rt.Service.Refresh(ctx)
	if err != nil {
		return err
	}
	if report.Processed == 0 {
		return errors.Join(ErrEmptyCache, fmt.Errorf("refresh fetched nothing, %d ids failed", len(report.Failed)))
	}
	return nil
}

// Close releases the document cache.
func (rt *Runtime) Close() error {
	if rt == nil || rt.Store == nil {
		return nil
	}
	return rt.Store.Close()
}
