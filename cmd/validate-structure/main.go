package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/agenticomni/conform/internal"
	"github.com/agenticomni/conform/internal/apperr"
	pkgconfig "github.com/agenticomni/conform/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(internal.ConfigPath(cmd.String("root"), cmd.String("config"), cmd.IsSet("config")), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("format") {
		cfg.App.Format = cmd.String("format")
	}
	if cmd.IsSet("history") {
		cfg.History.Path = cmd.String("history")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return internal.RunStructure(ctx,
		internal.WithConfig(cfg),
		internal.WithRoot(cmd.String("root")),
	)
}

func main() {
	cmd := &cli.Command{
		Name:   "validate-structure",
		Usage:  "Check that the required project directories and files exist",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root to check",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Optional config file; the default is looked up under --root, an explicit path is used as given",
				DefaultText: "conform.yaml",
				Value:       "conform.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format: text or json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "SQLite file recording every run (disabled when empty)",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, apperr.ErrValidationFailed) {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
