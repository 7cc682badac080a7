// cmd/mcp-server/main.go — MCP server for gosymsum
//
// Exposes the gosymsum tools (simplify, substitute, row_sum, row_product,
// bernoulli, harmonic, binomial, finite_difference) to AI agent frameworks.
//
// Usage:
//
//	GOSYMSUM_TRANSPORT=stdio go run ./cmd/mcp-server
//	GOSYMSUM_TRANSPORT=http GOSYMSUM_HTTP_ADDR=localhost:8080 go run ./cmd/mcp-server
//
// Over HTTP the MCP endpoint is /mcp and GET /health is a liveness check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/njchilds90/gosymsum/internal/config"
	"github.com/njchilds90/gosymsum/internal/logging"
	"github.com/njchilds90/gosymsum/internal/mcptools"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gosymsum-mcp:", err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gosymsum-mcp:", err)
		os.Exit(2)
	}
	gosymsum.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	server := mcptools.NewServer(mcptools.Options{
		Version: version,
		Logger:  logger,
		Timeout: cfg.RequestTimeout,
	})

	switch cfg.Transport {
	case config.TransportStdio:
		logger.Info("serving MCP over stdio")
		return server.Run(ctx, &mcp.StdioTransport{})
	case config.TransportHTTP:
		return serveHTTP(ctx, cfg.HTTPAddr, server, logger)
	}
	return fmt.Errorf("transport %q not supported", cfg.Transport)
}

func serveHTTP(ctx context.Context, addr string, server *mcp.Server, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over HTTP", "addr", addr, "endpoint", "/mcp")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
