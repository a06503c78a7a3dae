package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wunjo/internal"
	"github.com/starford/wunjo/internal/gallery"
	"github.com/starford/wunjo/internal/linkservice"
	"github.com/starford/wunjo/internal/mcpserver"
	"github.com/starford/wunjo/internal/probe"
	"github.com/starford/wunjo/internal/storage"
	pkgconfig "github.com/starford/wunjo/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runMCP serves the dashboard tools over MCP stdio, sharing the data and
// wallpaper directories with the HTTP server.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dataDir, err := storage.NewDir(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("init data dir: %w", err)
	}
	wallDir, err := storage.NewDir(cfg.Wallpapers.Path)
	if err != nil {
		return fmt.Errorf("init wallpapers dir: %w", err)
	}
	db, err := gallery.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init wallpaper index: %w", err)
	}
	defer db.Close()

	srv := mcpserver.New(
		linkservice.NewService(dataDir),
		probe.NewChecker(cfg.Probe.Timeout),
		gallery.NewService(wallDir, db),
	)
	return srv.ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "wunjo",
		Usage:  "Personal link dashboard with password-gated editing, wallpaper gallery, and link reachability checks",
		Action: runServe,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve dashboard tools over MCP stdio",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
