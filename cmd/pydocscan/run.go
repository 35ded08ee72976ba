package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/pydocscan/internal/config"
	"github.com/nao1215/pydocscan/internal/database"
	"github.com/nao1215/pydocscan/internal/fetch"
	"github.com/nao1215/pydocscan/internal/metrics"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/output"
	"github.com/nao1215/pydocscan/internal/scraper"
	"github.com/spf13/cobra"
)

// runRootCmd executes the mode named by the positional argument.
//
// Configuration is resolved before the logger exists, so configuration
// errors are returned to cobra and printed without log formatting.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Already checked by validMode.
	cfg.Mode, err = model.ParseMode(args[0])
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// On a terminal the console logger writes through the progress bars.
	var bars scraper.Progress
	console := cmd.ErrOrStderr()
	color := isTerminal(console)
	if color {
		tp := scraper.NewTerminalProgress(console)
		bars, console = tp, tp
	}

	logger, closeLog, err := setupLogger(cfg, console, color)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := runEnv{
		stdout:   cmd.OutOrStdout(),
		progress: bars,
		logger:   logger,
		args:     os.Args[1:],
	}

	return runParser(ctx, cfg, format, env)
}

// runEnv holds the process-level collaborators of a run.
type runEnv struct {
	stdout   io.Writer
	progress scraper.Progress // nil disables progress bars
	logger   *slog.Logger
	args     []string
}

// runParser executes one mode end to end: open the cache, scrape, emit the
// table and record it in the run history.
//
// A run that finds nothing to emit still succeeds. Only configuration,
// storage, page structure and output errors are returned, and each of them
// maps to exit status 1 in Execute.
func runParser(ctx context.Context, cfg *config.Config, format output.Format, env runEnv) error {
	logger := env.logger
	logger.Info("parser started", "args", env.args)
	start := time.Now()
	m := metrics.New()

	db, err := database.Open(cfg.CacheDir, database.Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		TTL:               cfg.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer db.Close()
	logger.Debug("cache database opened", "path", db.Path())

	// Clearing happens before the fetcher is built so that the first request
	// of this run already misses the cache.
	if cfg.ClearCache {
		n, err := db.ClearResponses(ctx)
		if err != nil {
			return err
		}
		logger.Info("cache cleared", "responses", n)
	}

	// Burst is rounded up so that a fractional rate still allows one request.
	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithRateLimit(cfg.RequestsPerSecond, int(math.Ceil(cfg.RequestsPerSecond))),
		fetch.WithCache(db),
		fetch.WithLogger(logger),
		fetch.WithRecorder(m),
	)

	s := scraper.New(fetcher,
		scraper.WithDocsURL(cfg.DocsURL),
		scraper.WithPEPsURL(cfg.PEPsURL),
		scraper.WithDownloadsDir(cfg.DownloadsDir),
		scraper.WithExpectedStatus(cfg.ExpectedStatus),
		scraper.WithLogger(logger),
		scraper.WithProgress(env.progress),
		scraper.WithMismatchRecorder(m),
	)

	table, err := s.Run(ctx, cfg.Mode)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cfg.Mode, err)
	}

	// rows stays -1 when there is no table; the metrics then skip the
	// result row gauge.
	rows := -1
	if table != nil {
		rows = table.Len()
		if err := output.Write(ctx, table, output.Options{
			Format:     format,
			Mode:       cfg.Mode,
			Stdout:     env.stdout,
			ResultsDir: cfg.ResultsDir,
			Logger:     logger,
		}); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}

		// History is best effort. The results have already been written.
		id, err := db.SaveRun(ctx, cfg.Mode, table)
		if err != nil {
			logger.Warn("failed to save run history", "error", err)
		} else {
			logger.Debug("run saved", "id", id)
		}
	} else if cfg.Mode != model.ModeDownload {
		logger.Warn("no results", "mode", cfg.Mode.String())
	}

	// Metrics are only written by runs that got this far.
	if cfg.MetricsFile != "" {
		m.RunFinished(cfg.Mode.String(), rows, time.Since(start), time.Now())
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		} else {
			logger.Debug("metrics written", "path", cfg.MetricsFile)
		}
	}

	logger.Info("parser finished")
	return nil
}
