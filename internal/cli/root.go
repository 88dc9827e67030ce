package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/pokelookup/internal/config"
	"github.com/okian/pokelookup/pkg/logger"
)

// app holds the flag values and the configuration shared by subcommands.
type app struct {
	configPath    string
	datasetPath   string
	cachePath     string
	apiURL        string
	style         string
	logLevel      string
	minSimilarity float64

	cfg *config.Config
}

// NewRootCommand builds the pokelookup command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pokelookup",
		Short: "Look up pokemon and how each attacking type fares against them",
		Long: `pokelookup resolves a pokemon by pokedex number or name, forgiving
misspellings, and prints its damage multipliers against all seventeen
generation-III attacking types.

Documents are fetched from PokeAPI into a local SQLite cache with
"pokelookup fetch"; a pokemon.json dataset can be used instead with --dataset.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", os.Getenv(config.EnvFile), "YAML config file")
	f.StringVar(&a.datasetPath, "dataset", "", "pokemon.json dataset used instead of the cache")
	f.StringVar(&a.cachePath, "cache", "", "SQLite document cache path")
	f.StringVar(&a.apiURL, "api-url", "", "PokeAPI v2 base URL")
	f.StringVar(&a.style, "style", "", "multiplier style: fraction or decimal")
	f.StringVar(&a.logLevel, "log-level", "warn", "log level for this run: debug, info, warn or error")
	f.Float64Var(&a.minSimilarity, "min-similarity", 0, "reject fuzzy matches scoring below this, in [0, 1]")

	root.AddCommand(
		a.lookupCommand(),
		a.replCommand(),
		a.fetchCommand(),
		a.chartCommand(),
		a.exportCommand(),
		a.probeCommand(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and initialises
// logging on stderr so stdout stays clean for command output.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFrom(cmd.Context(), a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.DatasetPath = a.datasetPath
	}
	if flags.Changed("cache") {
		cfg.CachePath = a.cachePath
	}
	if flags.Changed("api-url") {
		cfg.APIBaseURL = a.apiURL
	}
	if flags.Changed("style") {
		cfg.FractionStyle = a.style
	}
	if flags.Changed("min-similarity") {
		cfg.MinSimilarity = a.minSimilarity
	}
	cfg.LogLevel = a.logLevel
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.InitWith(cmd.ErrOrStderr(), logger.Format(cfg.LogFormat)); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// open builds the runtime and, when withRoster is set, loads the roster.
func (a *app) open(ctx context.Context, withRoster bool) (*Runtime, error) {
	rt, err := Open(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	if withRoster {
		if err := rt.LoadRoster(ctx); err != nil {
			_ = rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
