package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/stacksjs/launchpad/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewApp().NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "launchpad: %v\n", err)
		stop()
		os.Exit(int(cli.MapExitCode(err)))
	}
}
