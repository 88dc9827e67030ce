package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/pokelookup/internal/adapters/repository"
)

func (a *app) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the cached documents as a pokemon.json dataset",
		Long: `Write every cached PokeAPI document, ordered by pokedex number, as one
JSON array. The result can be passed back with --dataset. Without a file,
or with "-", the dataset goes to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer rt.Close()

			target := "stdout"
			var n int
			if len(args) == 1 && args[0] != "-" {
				target = args[0]
				n, err = exportFile(cmd, rt.Store, target)
			} else {
				n, err = repository.ExportJSON(cmd.Context(), rt.Store, cmd.OutOrStdout())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d documents to %s\n", n, target)
			return nil
		},
	}
}

// exportFile writes the dataset to path, reporting a failed close as a
// failed export.
func exportFile(cmd *cobra.Command, store *repository.SQLiteStore, path string) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return repository.ExportJSON(cmd.Context(), store, f)
}
