// Command mcpui-server serves the demo UI tools over streamable HTTP.
//
// Usage:
//
//	mcpui-server -addr :3000
//	mcpui-server -bundles ./dist            # inline HTML bundles
//	mcpui-server -targets targets.yaml      # target table from file
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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	mcpui "github.com/wagiedev/mcpui-go"
	"github.com/wagiedev/mcpui-go/internal/demo"
)

const shutdownTimeout = 10 * time.Second

type flags struct {
	addr            string
	targets         string
	bundles         string
	externalBaseURL string
	logLevel        string
	allowedOrigins  string
}

func main() {
	var f flags

	flag.StringVar(&f.addr, "addr", ":3000", "listen address")
	flag.StringVar(&f.targets, "targets", "", "YAML target table (overrides the built-in demo targets)")
	flag.StringVar(&f.bundles, "bundles", "", "directory of prebuilt UI bundles; enables inline HTML delivery")
	flag.StringVar(&f.externalBaseURL, "external-base-url", "", "base URL for route targets")
	flag.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&f.allowedOrigins, "allowed-origins", "*", "comma-separated CORS origins")
	flag.Parse()

	logger, err := newLogger(f.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", level, err)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func serverOptions(f flags, logger *slog.Logger) ([]mcpui.Option, error) {
	opts := []mcpui.Option{
		mcpui.WithLogger(logger),
		mcpui.WithValidators(demo.Validators()),
	}

	if f.bundles != "" {
		opts = append(opts,
			mcpui.WithTargets(demo.BundleTargets()),
			mcpui.WithBundleFS(os.DirFS(f.bundles)),
		)
	} else {
		opts = append(opts, mcpui.WithTargets(demo.ExternalTargets()))
	}

	if f.externalBaseURL != "" {
		opts = append(opts, mcpui.WithExternalBaseURL(f.externalBaseURL))
	}

	if f.targets != "" {
		file, err := mcpui.LoadTargetsFile(f.targets)
		if err != nil {
			return nil, err
		}

		opts = append(opts, mcpui.WithTargetFile(file))
	}

	return opts, nil
}

func run(ctx context.Context, f flags, logger *slog.Logger) error {
	opts, err := serverOptions(f, logger)
	if err != nil {
		return err
	}

	s := mcpui.NewServer("mcp-ui-demo", mcpui.Version, opts...)
	demo.Tools{}.Register(s)

	srv := &http.Server{
		Addr:              f.addr,
		Handler:           newRouter(mcpui.NewStreamableHTTPHandler(s, nil), splitOrigins(f.allowedOrigins), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Listening", "addr", f.addr, "tools", len(s.Tools()))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRouter mounts the MCP endpoint behind CORS, with request logging and
// panic recovery on every route.
func newRouter(mcpHandler http.Handler, origins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Handle("/mcp", cors(origins, mcpHandler))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func splitOrigins(list string) []string {
	var origins []string

	for o := range strings.SplitSeq(list, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}

// cors allows browser hosts on other origins to reach the MCP endpoint and
// read the session header.
func cors(origins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := allowedOrigin(origins, r.Header.Get("Origin")); origin != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Mcp-Session-Id, Mcp-Protocol-Version, Last-Event-ID")
			h.Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func allowedOrigin(origins []string, origin string) string {
	for _, o := range origins {
		if o == "*" {
			return "*"
		}

		if o == origin {
			return origin
		}
	}

	return ""
}
