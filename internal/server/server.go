package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/questdesk/gacha/internal/admin"
	"github.com/questdesk/gacha/internal/database"
	"github.com/questdesk/gacha/internal/economy"
	"github.com/questdesk/gacha/internal/gacha"
	"github.com/questdesk/gacha/internal/handler"
	"github.com/questdesk/gacha/internal/logger"
	"github.com/questdesk/gacha/internal/metrics"
	"github.com/questdesk/gacha/internal/sse"
)

// Server wires the HTTP surface over the gacha, economy, and admin services
type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer creates a new Server instance
func NewServer(port int, dbPool database.Pool, gachaService gacha.Service, economyService economy.Service, adminService admin.Service, hub *sse.Hub) *Server {
	r := chi.NewRouter()

	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint for Prometheus scraping
	r.Handle("/metrics", promhttp.Handler())

	// Live pull notifications
	r.Get("/events", sse.Handler(hub))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		gachaHandler := handler.NewGachaHandler(gachaService)
		r.Route("/gacha", func(r chi.Router) {
			r.Get("/pools", gachaHandler.HandleListPools)
			r.Post("/pools/{poolID}/pull", gachaHandler.HandlePull)
			r.Get("/history", gachaHandler.HandleGetHistory)
			r.Get("/collection", gachaHandler.HandleGetCollection)
		})

		economyHandler := handler.NewEconomyHandler(economyService)
		r.Route("/economy", func(r chi.Router) {
			r.Get("/balance", economyHandler.HandleGetBalance)
			r.Get("/history", economyHandler.HandleGetHistory)
		})

		adminHandler := handler.NewAdminHandler(adminService)
		r.Route("/admin", func(r chi.Router) {
			r.Route("/pools", func(r chi.Router) {
				r.Get("/", adminHandler.HandleListPools)
				r.Post("/", adminHandler.HandleCreatePool)
				r.Get("/{poolID}", adminHandler.HandleGetPool)
				r.Patch("/{poolID}", adminHandler.HandleUpdatePool)
				r.Delete("/{poolID}", adminHandler.HandleDeletePool)
				r.Get("/{poolID}/rarity", adminHandler.HandleGetRarityConfigs)
				r.Put("/{poolID}/rarity", adminHandler.HandleUpdateRarityConfigs)
			})
			r.Get("/providers/health", adminHandler.HandleProviderHealth)
			r.Post("/providers/clear-cache", adminHandler.HandleClearCache)
			r.Post("/currency/grant", economyHandler.HandleGrant)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// RequestSizeLimitMiddleware rejects request bodies above maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
