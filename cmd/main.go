package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/adanyl0v/task-manager/internal/app"
)

func main() {
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := app.Run(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
