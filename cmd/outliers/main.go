package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gyeh/outlierstats/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(exitcode.UsageError)
	}
}
