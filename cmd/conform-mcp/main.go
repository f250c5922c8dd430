package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/agenticomni/conform/internal"
	pkgconfig "github.com/agenticomni/conform/pkg/config"
)

var version = "dev"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(internal.ConfigPath(cmd.String("root"), cmd.String("config"), cmd.IsSet("config")), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return internal.ServeMCP(ctx, version,
		internal.WithConfig(cfg),
		internal.WithRoot(cmd.String("root")),
	)
}

func main() {
	cmd := &cli.Command{
		Name:    "conform-mcp",
		Usage:   "Serve the documentation and structure checkers as MCP tools over stdio",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root",
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
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
