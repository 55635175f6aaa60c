package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/perthos/docpress/internal"
	pkgconfig "github.com/perthos/docpress/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	if out := cmd.String("out"); out != "" {
		cfg.Output.Path = out
	}
	if profile := cmd.String("profile"); profile != "" {
		cfg.Pipeline.Profile = profile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runOptimize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var topics []string
	for _, t := range strings.Split(cmd.String("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	report, err := internal.Optimize(ctx, cfg, internal.OptimizeParams{
		Src:    cmd.String("src"),
		Repo:   cmd.String("repo"),
		Ref:    cmd.String("ref"),
		Topics: topics,
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("run finished with %d document errors", len(report.Errors))
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("DOCPRESS_CONFIG_FILE"),
	}
	outFlag := &cli.StringFlag{
		Name:  "out",
		Usage: "Artifact store root (overrides config)",
	}

	cmd := &cli.Command{
		Name:  "docpress",
		Usage: "Convert documentation trees into a content-addressed artifact store and serve read-only queries over it",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Transform a documentation tree and publish artifacts",
				Action: runOptimize,
				Flags: []cli.Flag{
					configFlag,
					outFlag,
					&cli.StringFlag{
						Name:     "src",
						Usage:    "Source directory containing Markdown/MDX files",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repo",
						Usage:    "Repository identifier (e.g. 'vercel/next.js')",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "ref",
						Usage:    "Git reference (branch or commit SHA)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "topics",
						Usage: "Comma-separated list of declared topics",
					},
					&cli.StringFlag{
						Name:  "profile",
						Usage: "Optimization profile: lossless, balanced, or compact",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the query API over HTTP",
				Action: runServe,
				Flags:  []cli.Flag{configFlag, outFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the query tools over stdio (MCP)",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag, outFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
