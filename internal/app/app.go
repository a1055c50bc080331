// Package app wires the minification pipeline to the workspace, the run
// history and the file watcher.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"rsmin/internal/config"
	"rsmin/internal/engine/compact"
	"rsmin/internal/engine/parser"
	"rsmin/internal/engine/rename"
	"rsmin/internal/history"
	"rsmin/internal/watcher"
	"rsmin/internal/workspace"
)

// Result is one completed minification.
type Result struct {
	RunID    string
	Source   string
	Output   string
	BytesIn  int
	BytesOut int
	Stats    rename.Stats
	Duration time.Duration
}

type App struct {
	cfg         *config.Config
	ws          *workspace.Workspace
	coordinator *rename.Coordinator
	store       *history.Store
	limiter     *rate.Limiter
	fsw         *watcher.Watcher
}

func New(cfg *config.Config) (*App, error) {
	ws, err := workspace.Load(workspace.Options{
		Root:         cfg.Paths.Root,
		Manifest:     cfg.Workspace.Manifest,
		Entry:        cfg.Workspace.Entry,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		ws:          ws,
		coordinator: rename.NewCoordinator(parser.New()),
		limiter:     rate.NewLimiter(rate.Limit(cfg.Watch.Rate), cfg.Watch.Burst),
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	if a.fsw != nil {
		_ = a.fsw.Close()
	}
	return a.store.Close()
}

func (a *App) Workspace() *workspace.Workspace {
	return a.ws
}

// RunOnce minifies the workspace entry, writes the configured output file if
// any, and records the run.
func (a *App) RunOnce() (Result, error) {
	source, err := a.ws.ReadEntry()
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	result := Result{
		Source:  a.ws.Entry,
		BytesIn: len(source),
	}

	text := source
	if a.cfg.Minify.RenameEnabled() {
		var stats rename.Stats
		text, stats, err = a.coordinator.Minify(text)
		if err != nil {
			return Result{}, err
		}
		result.Stats = stats
	}
	if a.cfg.Minify.CompactEnabled() {
		text = compact.Compact(text)
	}

	result.Output = text
	result.BytesOut = len(text)
	result.Duration = time.Since(start)

	if out := a.cfg.Paths.Output; out != "" {
		if err := writeArtifact(out, text); err != nil {
			return Result{}, err
		}
	}

	if a.store != nil {
		id, err := a.store.SaveRun(history.Run{
			ProjectKey:         a.cfg.History.Project,
			Source:             a.ws.Entry,
			BytesIn:            int64(result.BytesIn),
			BytesOut:           int64(result.BytesOut),
			BindingRenames:     result.Stats.BindingRenames,
			DeclarationRenames: result.Stats.DeclarationRenames,
			Duration:           result.Duration,
		})
		if err != nil {
			// A history failure must not lose the minified output.
			slog.Warn("failed to record run", "error", err)
		} else {
			result.RunID = id
		}
	}

	slog.Info("minified",
		"source", a.ws.Entry,
		"bytes_in", result.BytesIn,
		"bytes_out", result.BytesOut,
		"binding_renames", result.Stats.BindingRenames,
		"declaration_renames", result.Stats.DeclarationRenames,
		"duration", result.Duration)

	return result, nil
}

// StartWatch reruns the pipeline on source changes until ctx is done. The
// limiter caps the rerun rate during editor save storms.
func (a *App) StartWatch(ctx context.Context, onResult func(Result, error)) error {
	fsw, err := watcher.NewWatcher(
		a.cfg.Watch.Debounce,
		a.cfg.Exclude.Dirs,
		a.ws.RelevantFile,
		func(paths []string) {
			slog.Debug("sources changed", "count", len(paths))
			if err := a.limiter.Wait(ctx); err != nil {
				return
			}
			onResult(a.RunOnce())
		},
	)
	if err != nil {
		return err
	}
	a.fsw = fsw
	return fsw.Watch([]string{a.ws.Root})
}

// Trend renders the project's recorded runs inside the window.
func (a *App) Trend(window time.Duration) (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("history is disabled; enable [history] in rsmin.toml")
	}
	since := time.Time{}
	if window > 0 {
		since = time.Now().UTC().Add(-window)
	}
	runs, err := a.store.LoadRuns(a.cfg.History.Project, since)
	if err != nil {
		return "", err
	}
	report, err := history.BuildTrendReport(runs, window)
	if err != nil {
		return "", err
	}
	return history.FormatTrendReport(report), nil
}

func writeArtifact(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output %q: %w", path, err)
	}
	return nil
}
