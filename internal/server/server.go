// Package server provides the HTTP API for pagewise.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/pagewise/internal/config"
	"github.com/hyperjump/pagewise/internal/reader"
	"github.com/hyperjump/pagewise/internal/speech"
	"github.com/hyperjump/pagewise/pkg/utils"
)

// Server is the HTTP server for the pagewise API.
type Server struct {
	reader *reader.Service
	speech *speech.Service
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	rd *reader.Service,
	sp *speech.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		reader: rd,
		speech: sp,
		config: cfg,
		logger: utils.OrNop(logger),
	}
}

// Router returns the HTTP handler with every route and middleware mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.config.Server.RequestTimeoutSeconds) * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1/documents", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/ping", s.handlePing)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDelete)
			r.Get("/summary", s.handleSummary)
			r.Post("/navigate", s.handleNavigate)
			r.Get("/search", s.handleSearch)
			r.Get("/pages/{page}", s.handleGetPage)
			r.Get("/pages/{page}/image", s.handleGetImage)
			r.Post("/pages/{page}/question", s.handleQuestion)
		})
	})
	r.Post("/api/v1/speech/tts", s.handleTextToSpeech)
	r.Post("/api/v1/speech/stt", s.handleSpeechToText)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
