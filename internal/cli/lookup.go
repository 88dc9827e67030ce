package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/pokelookup/internal/adapters/render"
	"github.com/okian/pokelookup/internal/domain/model"
	"github.com/okian/pokelookup/internal/domain/roster"
	"github.com/okian/pokelookup/internal/domain/typechart"
	"github.com/okian/pokelookup/internal/domain/types"
)

func (a *app) lookupCommand() *cobra.Command {
	var (
		attacker string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "lookup <name|number>",
		Short: "Print a pokemon card and its effectiveness table",
		Example: `  pokelookup lookup bulbasaur
  pokelookup lookup 6 --type water
  pokelookup lookup mr mime --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := a.open(ctx, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			svc := rt.Service

			if attacker != "" {
				b, err := svc.Effectiveness(ctx, query, attacker)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, b)
				}
				printBreakdown(out, b)
				return nil
			}

			if asJSON {
				res, err := svc.Lookup(ctx, query)
				if err != nil {
					return err
				}
				return writeJSON(out, res)
			}
			p, m, err := svc.Resolve(ctx, query)
			if err != nil {
				return err
			}
			printLookup(out, query, p, m, svc.Vector(p), svc.Style())
			return nil
		},
	}
	cmd.Flags().StringVarP(&attacker, "type", "t", "", "only show this attacking type, with the per-type breakdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

// printLookup writes the card followed by the effectiveness table. Fuzzy
// matches are announced so a misspelling is not silently accepted.
func printLookup(w io.Writer, query string, p model.Pokemon, m roster.Match, vec []typechart.Multiplier, style render.Style) {
	if m.Kind == roster.MatchFuzzy {
		fmt.Fprintf(w, "Closest match for %q (similarity %.2f)\n", strings.TrimSpace(query), m.Score)
	}
	io.WriteString(w, render.Card(p))
	io.WriteString(w, render.Table(vec, style))
}

func printBreakdown(w io.Writer, b types.Breakdown) {
	fmt.Fprintf(w, "%s vs %s (%s)\n", render.Title(b.Attacker), b.Pokemon.DisplayName, titleTypes(b.Pokemon.Types))
	if len(b.Pokemon.Types) > 0 {
		fmt.Fprintf(w, "  %-9s %s\n", render.Title(b.Pokemon.Types[0]), b.Primary)
	}
	if len(b.Pokemon.Types) > 1 {
		fmt.Fprintf(w, "  %-9s %s\n", render.Title(b.Pokemon.Types[1]), b.Secondary)
	}
	fmt.Fprintf(w, "  %-9s %s\n", "Overall", b.Overall)
}

func titleTypes(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = render.Title(n)
	}
	return strings.Join(parts, " | ")
}
