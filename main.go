package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shopqa/presentation/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	termInterface := terminal.NewTerminalInterface()
	err := termInterface.Run(ctx, os.Args[1:])
	if cerr := termInterface.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log file: %v\n", cerr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
