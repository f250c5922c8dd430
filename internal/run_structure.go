package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/history"
	"github.com/agenticomni/conform/internal/report"
	"github.com/agenticomni/conform/internal/structure"
)

// RunStructure checks the project skeleton and renders the report. It
// returns apperr.ErrValidationFailed when any expectation fails.
func RunStructure(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	logger.Info("Configuration loaded",
		slog.String("root", app.root),
		slog.Int("directories", len(cfg.Structure.Dirs)),
		slog.Int("files", len(cfg.Structure.Files)))

	db, closeHistory, err := app.openHistory(logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	if err := ctx.Err(); err != nil {
		return err
	}

	r := report.New(app.stdout, cfg.App.Format, cfg.App.Name)
	return runStructureOnce(r, recorder(db), app.root, cfg.Structure, logger)
}

func runStructureOnce(r *report.Renderer, rec history.Recorder, root string, exps structure.Expectations, logger *slog.Logger) error {
	started := time.Now()
	rep := structure.Validate(root, exps)

	if err := r.Structure(rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if rec != nil {
		if id, err := rec.RecordStructure(rep, started); err != nil {
			logger.Warn("history: record failed", slog.String("error", err.Error()))
		} else {
			logger.Info("history: recorded", slog.String("run_id", id))
		}
	}

	if !rep.OK() {
		return apperr.ErrValidationFailed
	}
	return nil
}
