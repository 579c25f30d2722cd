// Command mcp-server exposes the symengine compute engine to agents and
// services.
//
// Usage:
//
//	mcp-server -addr :8080            # HTTP API
//	mcp-server -mode stdio            # MCP over stdin/stdout
//
// HTTP endpoints:
//
//	POST /compute        one request
//	POST /batch          {"items": [...]}
//	GET  /tasks          task names
//	GET  /tasks/search   ?q=...&limit=...
//	GET  /health         liveness
//
// Every flag can also be set through SYMENGINE_ADDR, SYMENGINE_MODE,
// SYMENGINE_RATE, SYMENGINE_BURST, SYMENGINE_MAX_BODY and
// SYMENGINE_LOG_LEVEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

const version = "0.3.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args, os.Getenv)
	if err != nil {
		return err
	}
	// stdout carries the MCP stream in stdio mode, so logs always go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	eng := engine.New(engine.NewConfig(engine.WithLogger(logger)))
	cat, err := catalog.New(eng)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Mode == modeStdio {
		logger.Info("serving MCP on stdio", slog.String("version", version), slog.Int("tasks", cat.Len()))
		return newMCPServer(logger, eng, cat).Run(ctx, &mcp.StdioTransport{})
	}
	return serveHTTP(ctx, logger, newServer(logger, eng, cat, cfg))
}

func serveHTTP(ctx context.Context, logger *slog.Logger, s *server) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      time.Duration(engine.MaxTimeoutSeconds+5) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", s.cfg.Addr), slog.String("version", version), slog.Int("tasks", s.catalog.Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
