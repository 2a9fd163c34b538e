package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	querybus "lineage/application/queries/bus"
	"lineage/infrastructure/config"
	"lineage/infrastructure/di"
	"lineage/interfaces/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(newQueryBus).ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, cli.RenderError(err))
		os.Exit(1)
	}
}

// newQueryBus wires the full stack from configuration plus the global flags
func newQueryBus(opts cli.Options) (*querybus.QueryBus, func(), error) {
	// Keep the terminal for chart output unless asked otherwise
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "error")
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.ConfigFile})
	if err != nil {
		return nil, nil, err
	}
	if opts.APIBaseURL != "" {
		cfg.ContentAPIBaseURL = opts.APIBaseURL
	}
	if opts.StorageBaseURL != "" {
		cfg.StorageBaseURL = opts.StorageBaseURL
	}
	if opts.MaxDepth >= 0 {
		cfg.ChartMaxDepth = opts.MaxDepth
	}
	cfg.RateLimitRPS = 0
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return container.QueryBus, container.Close, nil
}
