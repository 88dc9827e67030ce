// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers a YAML file and POKELOOKUP_* environment variables on top.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"net/url"
	"runtime"
	"time"

	"github.com/okian/pokelookup/internal/adapters/render"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CachePath is the SQLite document cache file.
	CachePath string `koanf:"cache_path"`

	// DatasetPath optionally points at a pokemon.json dataset used instead
	// of the cache.
	DatasetPath string `koanf:"dataset_path"`

	// APIBaseURL is the PokeAPI v2 root.
	APIBaseURL string `koanf:"api_base_url"`

	// HTTPTimeoutMS bounds one upstream request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// PokedexStart and PokedexEnd bound the refreshed range, inclusive.
	PokedexStart int `koanf:"pokedex_start"`
	PokedexEnd   int `koanf:"pokedex_end"`

	// FetchWorkers and FetchRetries shape the refresh pipeline.
	FetchWorkers int `koanf:"fetch_workers"`
	FetchRetries int `koanf:"fetch_retries"`

	// TargetVersion selects which historical type overrides apply.
	TargetVersion string `koanf:"target_version"`

	// MinSimilarity rejects fuzzy matches scoring below it, in [0, 1].
	MinSimilarity float64 `koanf:"min_similarity"`

	// FractionStyle renders non-integer multipliers: fraction or decimal.
	FractionStyle string `koanf:"fraction_style"`

	// RefreshOnEmpty fetches the pokedex at startup when the cache is empty.
	RefreshOnEmpty bool `koanf:"refresh_on_empty"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		CachePath:      "data/pokemon.db",
		APIBaseURL:     "https://pokeapi.co/api/v2",
		HTTPTimeoutMS:  10_000,
		PokedexStart:   1,
		PokedexEnd:     386,
		FetchWorkers:   runtime.NumCPU(),
		FetchRetries:   2,
		TargetVersion:  "generation-v",
		MinSimilarity:  0,
		FractionStyle:  string(render.StyleFraction),
		RefreshOnEmpty: false,
	}
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	case c.PokedexStart < 1:
		return invalid("pokedex_start must be >= 1, got %d", c.PokedexStart)
	case c.PokedexEnd < c.PokedexStart:
		return invalid("pokedex_end %d is before pokedex_start %d", c.PokedexEnd, c.PokedexStart)
	case c.FetchWorkers < 1:
		return invalid("fetch_workers must be >= 1, got %d", c.FetchWorkers)
	case c.FetchRetries < 0:
		return invalid("fetch_retries must be >= 0, got %d", c.FetchRetries)
	case c.HTTPTimeoutMS <= 0:
		return invalid("http_timeout_ms must be > 0, got %d", c.HTTPTimeoutMS)
	case c.MinSimilarity < 0 || c.MinSimilarity > 1:
		return invalid("min_similarity must be in [0, 1], got %v", c.MinSimilarity)
	case c.TargetVersion == "":
		return invalid("target_version must not be empty")
	}

	if _, err := render.ParseStyle(c.FractionStyle); err != nil {
		return invalid("%v", err)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	return nil
}
