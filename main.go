package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/insights/cmd"
	"github.com/TFMV/insights/logger"
)

func main() {
	// Create a context that can be canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())

	// Handle OS signals for graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Logger.Info("Received shutdown signal, stopping layout...")
		cancel()
	}()

	err := cmd.Execute(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}
