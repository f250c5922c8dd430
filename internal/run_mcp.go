package internal

import (
	"context"
	"log/slog"
	"os"

	"github.com/agenticomni/conform/internal/docs"
	"github.com/agenticomni/conform/internal/mcpserver"
)

// ServeMCP serves the checkers as MCP tools on stdin/stdout until the
// client disconnects.
func ServeMCP(ctx context.Context, version string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger()

	db, closeHistory, err := app.openHistory(logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	srv := mcpserver.New(mcpserver.Config{
		Docs: docs.Options{
			Root:      app.root,
			Dir:       cfg.Docs.Dir,
			Extension: cfg.Docs.Extension,
			Exclude:   cfg.Docs.Exclude,
			Workers:   cfg.Docs.Workers,
		},
		Structure: cfg.Structure,
		History:   db,
		Logger:    logger,
	}, version)

	logger.Info("MCP server starting", slog.String("root", app.root))
	return srv.Listen(ctx, os.Stdin, os.Stdout)
}
