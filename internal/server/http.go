package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/Urlyss/comic-database-mcp/internal/tools"
)

// ShutdownTimeout bounds how long in-flight requests may run after a signal.
const ShutdownTimeout = 10 * time.Second

// unauthorizedBody is the JSON-RPC error returned when no API key is supplied.
const unauthorizedBody = `{"jsonrpc":"2.0","error":{"code":-32000,"message":"Bad Request: No valid API key provided"},"id":null}`

// ClientFactory builds the API client of one HTTP session from the caller's key.
type ClientFactory func(apiKey string) (tools.API, error)

type apiKeyCtxKey struct{}

// NewHTTPHandler routes /health and the streamable MCP endpoint at /mcp.
// Every new MCP session gets its own server bound to the key of the request
// that opened it.
func NewHTTPHandler(newClient ClientFactory, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		key, _ := r.Context().Value(apiKeyCtxKey{}).(string)
		api, err := newClient(key)
		if err != nil {
			logger.Warn("create Comic Vine client", "error", err)
			return nil
		}
		s, err := NewMCPServer(api, logger)
		if err != nil {
			logger.Error("create MCP server", "error", err)
			return nil
		}
		logger.Debug("new MCP session")
		return s
	}, nil)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))
	r.Get("/health", health)
	r.With(requireAPIKey).Handle("/mcp", mcpHandler)
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// requireAPIKey rejects requests without "Authorization: Bearer <key>".
func requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := bearerToken(r.Header.Get("Authorization"))
		if key == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(unauthorizedBody))
			return
		}
		ctx := context.WithValue(r.Context(), apiKeyCtxKey{}, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requestLogger logs one line per request. Headers are never logged.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// RunHTTP serves h on addr until ctx ends, then shuts down gracefully.
func RunHTTP(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving MCP over HTTP", "addr", addr, "server", Name, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown incomplete", "error", err)
			return srv.Close()
		}
		return nil
	})
	return g.Wait()
}
