package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/storekit/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/storekit/config.toml)")
	locale := flag.String("locale", "", "UI language, e.g. en, es, de (optional)")
	seed := flag.Int64("seed", 0, "seed for simulated chat traffic (optional, 0 picks one)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Locale:     *locale,
		Seed:       *seed,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "storekit: %v\n", err)
		return 1
	}
	return 0
}
