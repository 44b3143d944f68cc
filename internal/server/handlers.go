// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/citation-engine/internal/docword"
	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// categories is the supported document category list.
var categories = []string{
	"adult_care",
	"biology",
	"business_management",
	"cancer",
	"computer_science",
	"corporate_governance",
	"healthcare_management",
	"machine_learning",
	"marketing",
	"mathematics",
	"neuroscience",
	"physics",
	"quantum_physics",
	"others",
}

func (s *Service) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (s *Service) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	_, paragraphs, err := s.readUpload(r, "input_file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"category": classifyCategory(paragraphs)})
}

// classifyCategory matches the document text against the known category
// names. Unmatched documents fall into "others".
func classifyCategory(paragraphs []extract.Paragraph) string {
	text := strings.ToLower(extract.Content(paragraphs))
	for _, cat := range categories {
		if cat == "others" {
			continue
		}
		if strings.Contains(text, strings.ReplaceAll(cat, "_", " ")) {
			return cat
		}
	}
	return "others"
}

// readUpload reads the named multipart file field and extracts its
// paragraphs.
func (s *Service) readUpload(r *http.Request, field string) (string, []extract.Paragraph, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("parsing upload: %w", err)
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("missing file field %q: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes))
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}

	paragraphs, err := extract.Document(header.Filename, data)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, paragraphs, nil
}

func (s *Service) handleCharCount(w http.ResponseWriter, r *http.Request) {
	_, paragraphs, err := s.readUpload(r, "file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, extract.Count(paragraphs))
}

func (s *Service) handleExtractContent(w http.ResponseWriter, r *http.Request) {
	_, paragraphs, err := s.readUpload(r, "file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"content": extract.Content(paragraphs),
		"message": "Content extracted successfully",
	})
}

func (s *Service) handleGetCitation(w http.ResponseWriter, r *http.Request) {
	filename, paragraphs, err := s.readUpload(r, "input_file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.suggester.Run(r.Context(), paragraphs)
	if err != nil {
		s.logger.Error("suggestion pipeline failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.CreateDocument(r.Context(), result.DocumentID, filename, extract.Content(paragraphs)); err != nil {
		s.logger.Error("persisting document", "document_id", result.DocumentID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.AddSuggestions(r.Context(), result.DocumentID, result.Citations); err != nil {
		s.logger.Error("persisting suggestions", "document_id", result.DocumentID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("suggestions prepared",
		"document_id", result.DocumentID,
		"citations", result.TotalCitations,
		"api_calls", result.Diagnostics.APICallsMade)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"document_id":     result.DocumentID,
		"total_citations": result.TotalCitations,
		"citations":       result.Citations,
		"context_info":    result.ContextInfo,
		"diagnostics":     result.Diagnostics,
	})
}

// reviewRequest carries one or more accept/dismiss decisions.
type reviewRequest struct {
	Decisions []reviewDecision `json:"decisions"`
}

type reviewDecision struct {
	CitationID string `json:"citation_id"`
	Status     string `json:"status"`
	Page       int    `json:"page,omitempty"`
}

func (s *Service) handleReview(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing request: %v", err))
		return
	}
	if len(req.Decisions) == 0 {
		s.writeError(w, http.StatusBadRequest, "no decisions provided")
		return
	}

	for _, d := range req.Decisions {
		err := s.store.SetStatus(r.Context(), documentID, d.CitationID, types.CitationStatus(d.Status), d.Page)
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	citations, err := s.store.ListCitations(r.Context(), documentID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"document_id": documentID,
		"citations":   citations,
	})
}

func (s *Service) handleFinalize(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	style := s.annotateCfg.Style
	if q := r.URL.Query().Get("style"); q != "" {
		style = types.ParseStyle(q)
	}

	_, content, err := s.store.Document(r.Context(), documentID)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	accepted, err := s.store.Accepted(r.Context(), documentID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := docword.Process(content, accepted, types.AnnotateConfig{Style: style})
	if err != nil {
		s.logger.Error("assembling document", "document_id", documentID, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("document finalized",
		"document_id", documentID,
		"style", string(style),
		"inserted", result.CitationsInserted,
		"skipped", result.CitationsSkipped,
		"references", result.ReferenceCount)

	w.Header().Set("Content-Type", docword.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(result.Document)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Document); err != nil {
		s.logger.Error("streaming document", "document_id", documentID, "error", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reachable := false
	cfg := types.SuggestConfig{TopK: 1}
	for _, p := range s.providers {
		if _, err := p.Search(ctx, "test query", 1, cfg); err == nil {
			reachable = true
			break
		}
	}

	body := map[string]any{
		"status": "healthy",
		"services": map[string]any{
			"citation_processor": "operational",
			"api_providers":      reachable,
		},
		"timestamp": time.Now().Unix(),
	}
	status := http.StatusOK
	if len(s.providers) > 0 && !reachable {
		body["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, body)
}
