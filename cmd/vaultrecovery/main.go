package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vaultrecovery/internal/cli"
	"github.com/dmitrijs2005/vaultrecovery/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	cfg := config.LoadConfig(args)
	app := cli.NewApp(cfg, os.Stdout, os.Stderr)

	err := app.Run(ctx, args)
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrIncomplete):
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
