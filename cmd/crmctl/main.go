package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/clientes-admin/internal/interfaces/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
