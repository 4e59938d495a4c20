// Package server - server.go wires the HTTP server, routes, and middleware.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/skydev929/us-resume-v2/internal/config"
	"github.com/skydev929/us-resume-v2/internal/db"
	"github.com/skydev929/us-resume-v2/internal/fetch"
	"github.com/skydev929/us-resume-v2/internal/llm"
	"github.com/skydev929/us-resume-v2/internal/pipeline"
	"github.com/skydev929/us-resume-v2/internal/rendering"
	"github.com/skydev929/us-resume-v2/internal/types"
)

// ProfileStore resolves a profile key to its record. Returns (nil, nil)
// when the key is unknown.
type ProfileStore interface {
	GetProfile(ctx context.Context, key string) (*types.ProfileRecord, error)
}

// PipelineRunner executes the generation pipeline for one request.
type PipelineRunner interface {
	Run(ctx context.Context, record *types.ProfileRecord, jobDescription string) (*pipeline.Result, error)
}

// JobSource resolves a posting URL to description text.
type JobSource interface {
	JobDescription(ctx context.Context, url string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	store      ProfileStore
	runner     PipelineRunner
	jobs       JobSource
	printer    rendering.Printer
	template   string
	model      string
}

// New creates a server from configuration, wiring the real backend client,
// database, fetcher, and PDF printer.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	runner := pipeline.New(client, pipeline.Config{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Retries:   cfg.Retries,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})

	s := &Server{
		db:       database,
		store:    database,
		runner:   runner,
		jobs:     fetch.NewJobFetcher(cfg.Verbose),
		printer:  &rendering.ChromePrinter{},
		template: cfg.Template,
		model:    cfg.Model,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation plus PDF printing
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request multiplexer with middleware applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/resume/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request ID.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()[:8]
		start := time.Now()
		log.Printf("[%s] %s %s from %s", requestID, r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s completed in %v", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
