package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Urlyss/comic-database-mcp/internal/comicvine"
	"github.com/Urlyss/comic-database-mcp/internal/config"
	"github.com/Urlyss/comic-database-mcp/internal/httpcache"
	"github.com/Urlyss/comic-database-mcp/internal/server"
	"github.com/Urlyss/comic-database-mcp/internal/telemetry"
	"github.com/Urlyss/comic-database-mcp/internal/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "comicvine-mcp",
		Short:        "Comic Vine MCP server",
		Long:         "comicvine-mcp exposes the Comic Vine comic book database as MCP tools that return Markdown.",
		SilenceUsage: true,
		Version:      server.Version,
	}
	root.SetErr(stderr)
	root.PersistentFlags().String("config", "", "Path to a YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "stdio",
			Short: "Serve one client over stdin/stdout (key from COMIC_VINE_API_KEY)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, stderr, runStdio)
			},
		},
		&cobra.Command{
			Use:   "http",
			Short: "Serve streamable HTTP on /mcp (key from each request's bearer token)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd, stderr, runHTTP)
			},
		},
	)
	return root
}

// app carries what both transports need.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	newClient server.ClientFactory
}

func run(cmd *cobra.Command, stderr io.Writer, serve func(context.Context, *app) error) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return err
	}
	logger := newLogger(stderr, cfg)
	ctx := cmd.Context()

	tp, shutdown, err := telemetry.Setup(ctx, server.Name, server.Version, cfg.Telemetry)
	if err != nil {
		logger.Error("telemetry setup failed", "error", err)
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	a := &app{cfg: cfg, logger: logger, newClient: clientFactory(cfg, tp)}
	if err := serve(ctx, a); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	return nil
}

func runStdio(ctx context.Context, a *app) error {
	api, err := a.newClient(a.cfg.APIKey)
	if err != nil {
		return err
	}
	return server.RunStdio(ctx, api, a.logger)
}

func runHTTP(ctx context.Context, a *app) error {
	return server.RunHTTP(ctx, a.cfg.ListenAddr(), server.NewHTTPHandler(a.newClient, a.logger), a.logger)
}

// clientFactory shares one HTTP transport, and so one response cache, between
// every client it builds.
func clientFactory(cfg config.Config, tp trace.TracerProvider) server.ClientFactory {
	hc := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: httpcache.NewTransport(http.DefaultTransport, cfg.HTTPCache),
	}
	return func(key string) (tools.API, error) {
		c, err := comicvine.NewClient(key,
			comicvine.WithBaseURL(cfg.BaseURL),
			comicvine.WithUserAgent(cfg.UserAgent),
			comicvine.WithHTTPClient(hc),
			comicvine.WithTracerProvider(tp),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
