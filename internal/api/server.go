package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/config"
	"github.com/harborlight/ipsearch/internal/history"
	"github.com/harborlight/ipsearch/internal/metrics"
	"github.com/harborlight/ipsearch/internal/middleware"
	"github.com/harborlight/ipsearch/internal/records"
)

// Searcher runs orchestrated patent and trademark searches. The returned
// source name reports which adapter (or the fallback) served the records.
type Searcher interface {
	SearchPatents(ctx context.Context, q records.SearchQuery) ([]records.PatentRecord, string)
	SearchTrademarks(ctx context.Context, q records.SearchQuery) ([]records.TrademarkRecord, string)
}

// StatusChecker looks up the prosecution status of one filing.
type StatusChecker interface {
	Check(ctx context.Context, kind records.Kind, id string) records.StatusRecord
}

// BulkCrawler hands a set of URLs to the delegated extraction process.
type BulkCrawler interface {
	CrawlMultiple(ctx context.Context, urls []string) []records.CrawlResult
}

// Server wires HTTP handlers to the search engine, status checker, crawler,
// and history store.
type Server struct {
	router   chi.Router
	searcher Searcher
	status   StatusChecker
	crawler  BulkCrawler
	history  history.Store
	metrics  *metrics.Metrics
	cfg      config.ServerConfig
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes. The history store,
// metrics, and logger may be nil; the corresponding features degrade quietly.
func NewServer(
	searcher Searcher,
	status StatusChecker,
	crawler BulkCrawler,
	hist history.Store,
	met *metrics.Metrics,
	cfg config.ServerConfig,
	logger *zap.Logger,
) *Server {
	if hist == nil {
		hist = history.NoOp{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		searcher: searcher,
		status:   status,
		crawler:  crawler,
		history:  hist,
		metrics:  met,
		cfg:      cfg,
		logger:   logger,
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 150 * time.Second
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	if met != nil {
		r.Use(middleware.Metrics(met))
	}
	r.Use(timeoutMiddleware(requestTimeout))
	if cfg.APIKey != "" {
		r.Use(apiKeyMiddleware(cfg.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/patents/search", s.searchPatents)
		r.Post("/trademarks/search", s.searchTrademarks)
		r.Get("/status/{kind}/{id}", s.getStatus)
		r.Post("/crawl", s.crawl)
		r.Get("/searches/recent", s.recentSearches)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Adapters are constructed lazily and the fallback always answers, so a
	// running process is a ready process.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) metricsHandler() http.Handler {
	if s.metrics != nil {
		return s.metrics.Handler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("request_id", requestIDFromContext(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestIDKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
