package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/pokelookup/internal/app"
)

const replPrompt = "What pokemon would you like to lookup?"

func (a *app) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Look up pokemon interactively until quit, exit or end of input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), rt.Service)
		},
	}
}

// runREPL reads one query per line. A query that matches nothing is reported
// and the loop continues.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, svc *service.Service) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, replPrompt)
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		line := sc.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "quit", "exit":
			return nil
		}

		p, m, err := svc.Resolve(ctx, line)
		switch {
		case errors.Is(err, service.ErrNotFound):
			fmt.Fprintf(out, "Pokemon '%s' not found. Sorry!\n", line)
			continue
		case err != nil:
			return err
		}
		printLookup(out, line, p, m, svc.Vector(p), svc.Style())
	}
}
