package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	appLog "shiftcal/internal/log"
)

const version = "0.1.0"

func main() {
	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		appLog.Error("shiftcal failed", err)
		os.Exit(1)
	}
}
