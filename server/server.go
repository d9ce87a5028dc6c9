package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/hupe1980/promptdesk/artifact"
	"github.com/hupe1980/promptdesk/core"
	"github.com/hupe1980/promptdesk/logging"
	"github.com/hupe1980/promptdesk/model"
	"github.com/hupe1980/promptdesk/session"
)

// Options configures the Server instance.
type Options struct {
	// Artifacts stores generated images (defaults to in-memory).
	Artifacts core.ArtifactStore
	// Sessions stores chat history (defaults to in-memory).
	Sessions core.SessionStore
	// Logger receives request and failure logs (defaults to no-op).
	Logger logging.Logger
	// RateRPS / RateBurst throttle the provider-facing endpoints. Zero RPS
	// disables throttling.
	RateRPS   float64
	RateBurst int
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Server routes browser requests to the provider adapters and the artifact
// store. Chat models are registered under a provider slug ("gpt", "claude")
// that doubles as the URL path segment.
type Server struct {
	router     *mux.Router
	chatModels map[string]model.ChatModel
	imageModel model.ImageModel
	artifacts  core.ArtifactStore
	sessions   core.SessionStore
	logger     logging.Logger
	limiter    *rate.Limiter

	shutdownTimeout time.Duration
}

// New creates the HTTP server with explicit model registration. Behaviour can
// be tweaked via functional options; any unset store is initialized with an
// in-memory implementation.
func New(chatModels map[string]model.ChatModel, imageModel model.ImageModel, optFns ...func(o *Options)) *Server {
	opts := Options{
		Artifacts:       artifact.NewInMemoryStore(),
		Sessions:        session.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		router:          mux.NewRouter(),
		chatModels:      chatModels,
		imageModel:      imageModel,
		artifacts:       opts.Artifacts,
		sessions:        opts.Sessions,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	if opts.RateRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateRPS), opts.RateBurst)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.router.Use(c.Handler, metricsMiddleware)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	// Provider-facing endpoints share one rate limiter: they are the only
	// paths that spend provider quota.
	s.router.HandleFunc("/chat/{provider}", s.rateLimited(s.handleChat)).Methods(http.MethodPost)
	s.router.HandleFunc("/image/generate", s.rateLimited(s.handleGenerateImage)).Methods(http.MethodPost)

	s.router.HandleFunc("/images/{key}", s.handleGetImage).Methods(http.MethodGet)
	s.router.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("http server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.logger.Error("failed to write health response", "error", err)
	}
}
