package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// Transport names accepted by Run.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Run serves the MCP server over the given transport until ctx is
// cancelled. addr is ignored for stdio.
func (s *Server) Run(ctx context.Context, transport, addr string, shutdownTimeout time.Duration) error {
	switch transport {
	case TransportStdio:
		return s.runStdio(ctx)
	case TransportSSE:
		log.Info().Str("addr", addr).Msg("Starting SSE server")
		sse := server.NewSSEServer(s.mcp)
		return serveHTTP(ctx, addr, shutdownTimeout, sse.Start, sse.Shutdown)
	case TransportHTTP:
		log.Info().Str("addr", addr).Msg("Starting streamable HTTP server")
		httpSrv := server.NewStreamableHTTPServer(s.mcp)
		return serveHTTP(ctx, addr, shutdownTimeout, httpSrv.Start, httpSrv.Shutdown)
	default:
		return fmt.Errorf("unknown transport %q (expected stdio, sse, or http)", transport)
	}
}

func (s *Server) runStdio(ctx context.Context) error {
	log.Info().Msg("Starting stdio server")
	err := server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// serveHTTP starts an HTTP-based transport and shuts it down when ctx is
// cancelled.
func serveHTTP(ctx context.Context, addr string, shutdownTimeout time.Duration, start func(string) error, shutdown func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
