// Command mcpui-host is a minimal browser host for MCP-UI tools.
//
// It connects to an MCP server, calls the tool named in the query string,
// renders the returned UI resource in an iframe, and relays the iframe's
// postMessage traffic to a Go-side embed over a WebSocket bridge.
//
// Usage:
//
//	mcpui-host -server http://localhost:3000/mcp -addr :8080
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
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	mcpui "github.com/wagiedev/mcpui-go"
)

const shutdownTimeout = 10 * time.Second

type flags struct {
	addr           string
	server         string
	logLevel       string
	allowedOrigins string
	actionRate     float64
	readyTimeout   time.Duration
}

func main() {
	var f flags

	flag.StringVar(&f.addr, "addr", ":8080", "listen address")
	flag.StringVar(&f.server, "server", "http://localhost:3000/mcp", "MCP server endpoint")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&f.allowedOrigins, "allowed-origins", "", "comma-separated glob patterns for accepted iframe origins")
	flag.Float64Var(&f.actionRate, "action-rate", 5, "UI actions forwarded per second per embed (0 disables the limit)")
	flag.DurationVar(&f.readyTimeout, "ready-timeout", 10*time.Second, "warn when an iframe has not signalled readiness in time")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(f.logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", f.logLevel, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, logger); err != nil {
		logger.Error("Host failed", "error", err)
		os.Exit(1)
	}
}

func hostOptions(f flags, logger *slog.Logger) []mcpui.Option {
	opts := []mcpui.Option{
		mcpui.WithLogger(logger),
		mcpui.WithReadyTimeout(f.readyTimeout),
	}

	if f.actionRate > 0 {
		opts = append(opts, mcpui.WithActionRateLimit(f.actionRate, 1))
	}

	var origins []string

	for o := range strings.SplitSeq(f.allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) > 0 {
		opts = append(opts, mcpui.WithAllowedOrigins(origins...))
	}

	return opts
}

func run(ctx context.Context, f flags, logger *slog.Logger) error {
	client, err := mcpui.Connect(ctx, f.server, hostOptions(f, logger)...)
	if err != nil {
		return err
	}
	defer client.Close()

	h := newHost(ctx, client, logger)

	srv := &http.Server{
		Addr:              f.addr,
		Handler:           h.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Listening", "addr", f.addr, "server", f.server)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		h.unmountAll()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
