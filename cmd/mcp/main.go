package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/eduassist/internal/adapters/mcp"
	"github.com/kirillkom/eduassist/internal/bootstrap"
	"github.com/kirillkom/eduassist/internal/config"
	"github.com/kirillkom/eduassist/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	httpAddr := flag.String("http", cfg.MCPHTTPAddr, "serve streamable HTTP on this address (e.g. ':8090') instead of stdio")
	flag.Parse()

	// stdout carries the stdio protocol, so logs go to stderr.
	logger := logging.New(os.Stderr, "mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.WithLogger(logger))
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	s := mcpadapter.NewServer(app.AnalyzeUC, app.SummarizeUC, app.QuizUC)
	if err := serve(ctx, s, *httpAddr, logger); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		app.Close()
		os.Exit(1)
	}
}

func serve(ctx context.Context, s *server.MCPServer, httpAddr string, logger *slog.Logger) error {
	if httpAddr == "" {
		logger.Info("mcp_stdio_started")
		return server.ServeStdio(s)
	}

	httpServer := server.NewStreamableHTTPServer(s)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp_http_listening", "addr", httpAddr)
		errCh <- httpServer.Start(httpAddr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("streamable http: %w", err)
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	}
}
