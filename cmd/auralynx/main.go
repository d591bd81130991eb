package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/auralynx/auralynx/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewTranscribeCmd())
	stop()
	os.Exit(code)
}
