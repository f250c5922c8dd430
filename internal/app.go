// Package internal wires configuration, logging and the checkers into the
// runs executed by the commands.
package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/agenticomni/conform/internal/history"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{
		root:   ".",
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return app, nil
}

// logger builds the structured JSON logger. Logs go to stderr so stdout
// only carries the report.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openHistory opens the run history when configured. The returned close
// function is always safe to call.
func (a *application) openHistory(logger *slog.Logger) (*history.DB, func(), error) {
	if !a.config.History.Enabled() {
		return nil, func() {}, nil
	}
	db, err := history.Open(a.config.History.Path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("init history: %w", err)
	}
	logger.Debug("history: opened", slog.String("path", a.config.History.Path))
	return db, func() { db.Close() }, nil
}

// recorder returns db as a Recorder, or nil when history is disabled.
func recorder(db *history.DB) history.Recorder {
	if db == nil {
		return nil
	}
	return db
}
