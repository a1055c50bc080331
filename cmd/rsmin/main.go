package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsmin/internal/app"
	"rsmin/internal/config"
)

var (
	configPath = flag.String("config", "./rsmin.toml", "Path to config file")
	root       = flag.String("root", "", "Workspace root (overrides config)")
	entry      = flag.String("entry", "", "Entry file (overrides Cargo.toml resolution)")
	output     = flag.String("output", "", "Output file; default is stdout")
	watch      = flag.Bool("watch", false, "Keep running and re-minify on source changes")
	trend      = flag.Bool("trend", false, "Print the recorded size trend and exit")
	window     = flag.Duration("window", 24*time.Hour, "Trend window")
	noRename   = flag.Bool("no-rename", false, "Skip the identifier rename pass")
	noCompact  = flag.Bool("no-compact", false, "Skip the whitespace compaction pass")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("rsmin v%s\n", VERSION)
		os.Exit(0)
	}

	// Logs go to stderr; stdout carries the minified source.
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./rsmin.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	applyFlags(cfg)

	instance, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer instance.Close()

	if *trend {
		report, err := instance.Trend(*window)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(report)
		os.Exit(0)
	}

	result, err := instance.RunOnce()
	if err != nil {
		slog.Error("minification failed", "error", err)
		os.Exit(1)
	}
	emit(cfg, result)

	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = instance.StartWatch(ctx, func(r app.Result, err error) {
		if err != nil {
			slog.Error("minification failed", "error", err)
			return
		}
		emit(cfg, r)
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
}

// applyFlags lets the command line override the loaded configuration.
func applyFlags(cfg *config.Config) {
	if *root != "" {
		cfg.Paths.Root = *root
	} else if flag.NArg() > 0 {
		cfg.Paths.Root = flag.Arg(0)
	}
	if *entry != "" {
		cfg.Workspace.Entry = *entry
	}
	if *output != "" {
		cfg.Paths.Output = *output
	}
	if *noRename {
		off := false
		cfg.Minify.Rename = &off
	}
	if *noCompact {
		off := false
		cfg.Minify.Compact = &off
	}
}

// emit prints to stdout unless an output file is configured; the app already
// wrote that file.
func emit(cfg *config.Config, result app.Result) {
	if cfg.Paths.Output == "" {
		fmt.Println(result.Output)
	}
}
