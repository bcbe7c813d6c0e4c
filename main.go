package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autoclicker/presentation/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// After the first signal a second one gets the default behaviour
	context.AfterFunc(ctx, stop)

	termInterface, err := terminal.NewTerminalInterface(ctx)
	if err != nil {
		if terminal.IsConfigError(err) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		}
		return 1
	}
	defer func() {
		if err := termInterface.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to detach: %v\n", err)
		}
	}()

	if err := termInterface.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
