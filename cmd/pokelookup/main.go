// Command pokelookup is the command line front end: lookups, the
// interactive loop, cache maintenance and server probes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/pokelookup/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Stderr.WriteString("pokelookup: " + err.Error() + "\n")
		os.Exit(1)
	}
}
