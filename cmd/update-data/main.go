package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/josaatt/josaatt.github.io/internal/collector"
	"github.com/josaatt/josaatt.github.io/internal/providers/scb"
	"github.com/josaatt/josaatt.github.io/internal/store/jsonfile"
)

const defaultDataFile = "norrkoping_jonkoping_manad.json"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		run(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func run(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dataPath := fs.String("data", defaultDataFile, "path to the dataset document")
	timeout := fs.Duration("timeout", 0, "request timeout (0 = provider default)")
	dryRun := fs.Bool("dry-run", false, "fetch and merge but leave the dataset file untouched")
	fs.Parse(args)

	if err := runUpdate(*dataPath, *timeout, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, "update run failed:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: update-data run [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options:")
	fmt.Fprintln(os.Stderr, "  -data     path to the dataset document (default: "+defaultDataFile+")")
	fmt.Fprintln(os.Stderr, "  -timeout  request timeout (default: provider default)")
	fmt.Fprintln(os.Stderr, "  -dry-run  fetch and merge but leave the dataset file untouched")
}

func runUpdate(dataPath string, timeout time.Duration, dryRun bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := scb.ConfigFromEnv()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	provider, err := scb.NewWithConfig(cfg)
	if err != nil {
		return err
	}

	fileStore, err := jsonfile.New(dataPath, provider.RegionNames())
	if err != nil {
		return err
	}

	c := &collector.Collector{
		Provider: provider,
		Store:    fileStore,
		Logger:   logger,
		DryRun:   dryRun,
	}
	result, err := c.Run(context.Background())
	if err != nil {
		return err
	}

	logger.Info("update run complete",
		"fetched", result.Fetched,
		"added", result.Added,
		"data", dataPath)
	return nil
}
