// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the citation pipeline over HTTP: document
// upload and extraction, suggestion review, and finalized document
// download.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/internal/suggest"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// defaultMaxUploadBytes caps multipart uploads at 16 MiB.
const defaultMaxUploadBytes = 16 << 20

// Suggester runs the suggestion pipeline for one document.
type Suggester interface {
	Run(ctx context.Context, paragraphs []extract.Paragraph) (types.SuggestionResult, error)
}

// Service wires the HTTP handlers to the store and the suggestion
// pipeline.
type Service struct {
	logger      *slog.Logger
	store       *store.Store
	suggester   Suggester
	providers   []suggest.Provider
	cfg         types.ServerConfig
	annotateCfg types.AnnotateConfig
}

// New builds the service. The provider list is used by the health
// endpoint to check upstream reachability; annotateCfg supplies the
// reference style used when a finalize request names none.
func New(logger *slog.Logger, st *store.Store, suggester Suggester, providers []suggest.Provider, cfg types.ServerConfig, annotateCfg types.AnnotateConfig) *Service {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if annotateCfg.Style == "" {
		annotateCfg.Style = types.StyleAPA
	}
	return &Service{
		logger:      logger,
		store:       st,
		suggester:   suggester,
		providers:   providers,
		cfg:         cfg,
		annotateCfg: annotateCfg,
	}
}

// Router builds the chi router with all endpoints registered.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/citations", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/health", s.handleHealth)
		r.Post("/char-count", s.handleCharCount)
		r.Post("/extract-content", s.handleExtractContent)
		r.Post("/get-category", s.handleGetCategory)
		r.Post("/get-citation", s.handleGetCitation)
		r.Post("/{document_id}/review", s.handleReview)
		r.Post("/{document_id}/finalize", s.handleFinalize)
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is canceled, then
// shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// writeJSON sends a JSON response body.
func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError sends the error envelope used across all endpoints.
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
