// Package server exposes the cached month over a small read-only HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// MonthLoader returns the cached month with performed flags computed for
// now. cache.Store.LoadMonth satisfies it.
type MonthLoader func(now civil.DateTime) (prayer.Month, error)

// Server serves the cached timetable.
type Server struct {
	load       MonthLoader
	logger     zerolog.Logger
	now        func() time.Time
	timeLayout string
	// AllowedOrigins configures CORS. Empty allows any origin.
	AllowedOrigins []string
	// RequestsPerMinute limits each client IP.
	RequestsPerMinute int
}

// New creates a Server reading months through load.
func New(load MonthLoader, logger zerolog.Logger) *Server {
	return &Server{
		load:              load,
		logger:            logger,
		now:               time.Now,
		timeLayout:        "15:04",
		RequestsPerMinute: 100,
	}
}

// SetTimeLayout sets the Go layout used for times in JSON responses.
func (s *Server) SetTimeLayout(layout string) { s.timeLayout = layout }

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.RealIP)
	router.Use(s.requestLogger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(httprate.LimitByIP(s.RequestsPerMinute, time.Minute))

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         300,
	}))
	router.Use(chiMiddleware.Heartbeat("/healthz"))

	router.Get("/today", s.getToday)
	router.Get("/next", s.getNext)
	router.Get("/month", s.getMonth)
	router.Get("/days/{date}", s.getDay)
	router.Get("/timetable", s.getTimetable)

	return router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		subLogger := s.logger.
			With().
			Str("request_id", uuid.New().String()).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("client_ip", req.RemoteAddr).
			Logger()

		req = req.WithContext(subLogger.WithContext(req.Context()))
		next.ServeHTTP(res, req)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("serving timetable")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
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
