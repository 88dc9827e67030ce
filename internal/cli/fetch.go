package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) fetchCommand() *cobra.Command {
	var from, to, workers int
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the pokedex range from PokeAPI into the cache and rebuild the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("from") {
				a.cfg.PokedexStart = from
			}
			if flags.Changed("to") {
				a.cfg.PokedexEnd = to
			}
			if flags.Changed("workers") {
				a.cfg.FetchWorkers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			rt, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := rt.Service.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fetched %d/%d documents in %s\n",
				report.Processed, report.Requested, report.Duration.Round(time.Millisecond))
			if len(report.Failed) > 0 {
				ids := make([]string, len(report.Failed))
				for i, id := range report.Failed {
					ids[i] = strconv.Itoa(id)
				}
				fmt.Fprintf(out, "failed: %s\n", strings.Join(ids, ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "first pokedex number")
	cmd.Flags().IntVar(&to, "to", 386, "last pokedex number")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent downloads")
	return cmd
}
