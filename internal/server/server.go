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

	"github.com/forumkit/wagerhall/internal/database"
	"github.com/forumkit/wagerhall/internal/handler"
	"github.com/forumkit/wagerhall/internal/ledger"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/metrics"
	"github.com/forumkit/wagerhall/internal/settlement"
	"github.com/forumkit/wagerhall/internal/wagering"
)

type Server struct {
	httpServer        *http.Server
	dbPool            database.Pool
	wageringService   wagering.Service
	settlementService settlement.Service
	ledgerService     ledger.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, wageringService wagering.Service, settlementService settlement.Service, ledgerService ledger.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		eventHandler := handler.NewEventHandler(wageringService)
		wagerHandler := handler.NewWagerHandler(wageringService, ledgerService)
		settlementHandler := handler.NewSettlementHandler(settlementService)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.HandleListEvents)
			r.Post("/", eventHandler.HandleCreateEvent)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.HandleGetEvent)
				r.Delete("/", eventHandler.HandleDeleteEvent)
				r.Post("/activate", eventHandler.HandleActivateEvent)
				r.Post("/finish", eventHandler.HandleFinishEvent)
				r.Post("/winner", eventHandler.HandleSetWinner)
				r.Post("/wagers", wagerHandler.HandlePlaceWager)
				r.Post("/settle", settlementHandler.HandleSettleEvent)
				r.Post("/cancel", settlementHandler.HandleCancelEvent)
			})
		})

		r.Route("/records", func(r chi.Router) {
			r.Post("/{id}/resettle", settlementHandler.HandleResettleRecord)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}/balance", wagerHandler.HandleGetBalance)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:            dbPool,
		wageringService:   wageringService,
		settlementService: settlementService,
		ledgerService:     ledgerService,
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
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
