package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/sluggable/internal/cli"
	"github.com/dmitrymomot/sluggable/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := 0
	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "slugctl:", err)
		code = 1
	}

	stop()
	os.Exit(code)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return cli.Run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
}
