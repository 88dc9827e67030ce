package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/pokelookup/internal/adapters/render"
	service "github.com/okian/pokelookup/internal/app"
	"github.com/okian/pokelookup/internal/domain/types"
)

func (a *app) chartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Print the attacker by defender type chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			style, err := render.ParseStyle(a.cfg.FractionStyle)
			if err != nil {
				return err
			}
			// The chart needs no roster, so no cache is opened.
			svc := service.New(service.WithFractionStyle(style))
			printChart(cmd.OutOrStdout(), svc.Chart())
			return nil
		},
	}
}

// printChart writes attackers down the side and three-letter defenders
// across the top.
func printChart(w io.Writer, c types.Chart) {
	fmt.Fprintf(w, "%-9s", "")
	for _, t := range c.Types {
		fmt.Fprintf(w, " %4s", render.Title(t)[:3])
	}
	fmt.Fprintln(w)
	for i, row := range c.Rows {
		fmt.Fprintf(w, "%-9s", render.Title(c.Types[i]))
		for _, cell := range row {
			fmt.Fprintf(w, " %4s", cell)
		}
		fmt.Fprintln(w)
	}
}
