package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/docs"
	"github.com/agenticomni/conform/internal/history"
	"github.com/agenticomni/conform/internal/report"
	"github.com/agenticomni/conform/internal/watch"
)

// RunDocs validates the documentation tree and renders the report. It
// returns apperr.ErrDocsDirNotFound or apperr.ErrValidationFailed when the
// run must exit with a failure status.
func RunDocs(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("root", app.root),
		slog.String("docs_dir", cfg.Docs.Dir),
		slog.Int("workers", cfg.Docs.Workers),
		slog.String("format", cfg.App.Format),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, closeHistory, err := app.openHistory(logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	r := report.New(app.stdout, cfg.App.Format, cfg.App.Name)
	dopts := docs.Options{
		Root:      app.root,
		Dir:       cfg.Docs.Dir,
		Extension: cfg.Docs.Extension,
		Exclude:   cfg.Docs.Exclude,
		Workers:   cfg.Docs.Workers,
		Logger:    logger,
	}

	rec := recorder(db)
	runErr := runDocsOnce(ctx, r, rec, dopts, logger)
	if !app.watch || errors.Is(runErr, apperr.ErrDocsDirNotFound) {
		return runErr
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docsDir := filepath.Join(app.root, filepath.FromSlash(cfg.Docs.Dir))
	lastErr := runErr
	err = watch.Watch(ctx, docsDir, watch.Options{Extension: cfg.Docs.Extension, Logger: logger},
		func(ctx context.Context, changed []string) {
			logger.Info("watcher: re-validating", slog.Any("changed", changed))
			lastErr = runDocsOnce(ctx, r, rec, dopts, logger)
		})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return lastErr
}

func runDocsOnce(ctx context.Context, r *report.Renderer, rec history.Recorder, opts docs.Options, logger *slog.Logger) error {
	started := time.Now()
	rep, err := docs.Validate(ctx, opts)
	if errors.Is(err, apperr.ErrDocsDirNotFound) {
		if rerr := r.DocsDirNotFound(opts.Dir); rerr != nil {
			return rerr
		}
		return err
	}
	if err != nil {
		return err
	}

	if err := r.Docs(rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if rec != nil {
		id, err := rec.RecordDocs(rep, started)
		if err != nil {
			logger.Warn("history: record failed", slog.String("error", err.Error()))
		} else {
			logger.Info("history: recorded", slog.String("run_id", id))
		}
	}

	if rep.ExitCode() != 0 {
		return apperr.ErrValidationFailed
	}
	return nil
}
