// Package server hosts the HTTP API. Feature packages register their own
// routes; the server only owns the router, middleware and lifecycle.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/llm"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port        int
	DataDir     string // directory for the SQLite DB and data files
	AllowAll    bool   // allow all CORS origins (dev mode)
	LogRequests bool   // log every request (verbose mode)
}

// Server is the reqpilot HTTP server.
type Server struct {
	cfg        Config
	db         *db.DB
	engine     *session.Engine
	provider   llm.Provider
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, database *db.DB, engine *session.Engine, provider llm.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		engine:   engine,
		provider: provider,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes are registered by feature packages via RegisterRoutes.
	return r
}

// Router returns the chi router for registering feature routes.
func (s *Server) Router() chi.Router { return s.router }

// Engine returns the session engine.
func (s *Server) Engine() *session.Engine { return s.engine }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Provider returns the LLM provider.
func (s *Server) Provider() llm.Provider { return s.provider }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("reqpilot server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
