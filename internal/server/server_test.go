// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/internal/suggest"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// fakeSuggester returns a canned result regardless of input.
type fakeSuggester struct {
	result types.SuggestionResult
	err    error
}

func (f *fakeSuggester) Run(ctx context.Context, paragraphs []extract.Paragraph) (types.SuggestionResult, error) {
	return f.result, f.err
}

// fakeHealthProvider implements suggest.Provider for health checks.
type fakeHealthProvider struct {
	err error
}

func (f *fakeHealthProvider) Name() string { return "fake" }

func (f *fakeHealthProvider) Search(ctx context.Context, query string, limit int, cfg types.SuggestConfig) ([]types.PaperDetails, error) {
	return nil, f.err
}

func testService(t *testing.T, suggester Suggester, providers []suggest.Provider) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "citations.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, st, suggester, providers, types.ServerConfig{}, types.AnnotateConfig{}), st
}

// uploadRequest builds a multipart upload with one file field.
func uploadRequest(t *testing.T, target, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testCitation(id, sentence string) types.Citation {
	return types.Citation{
		ID:               id,
		OriginalSentence: sentence,
		PaperDetails: types.PaperDetails{
			Title:   "Relevant Paper",
			Authors: []string{"Jane Doe"},
			Year:    "2021",
			URL:     "https://example.org/paper",
		},
		Status:   types.StatusPendingReview,
		Metadata: types.CitationLocation{ParagraphIndex: 1, SentenceIndex: 1},
	}
}

func TestCategories(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/citations/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["categories"], "machine_learning")
	assert.Contains(t, body["categories"], "others")
}

func TestGetCategory(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	req := uploadRequest(t, "/api/v1/citations/get-category", "input_file", "draft.txt",
		"This survey covers machine learning for clinical triage.")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "machine_learning", body["category"])
}

func TestGetCategoryUnmatched(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	req := uploadRequest(t, "/api/v1/citations/get-category", "input_file", "draft.txt",
		"Notes about gardening and weather.")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "others", body["category"])
}

func TestCharCount(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	req := uploadRequest(t, "/api/v1/citations/char-count", "file", "draft.txt", "one two three")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats extract.CountStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.WordCount)
	assert.Equal(t, 13, stats.CharacterCount)
}

func TestCharCountMissingFile(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/char-count", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["message"])
}

func TestExtractContent(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)
	req := uploadRequest(t, "/api/v1/citations/extract-content", "file", "draft.txt", "First paragraph.\nSecond paragraph.")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "First paragraph.\nSecond paragraph.", body["content"])
}

func TestGetCitationPersistsSuggestions(t *testing.T) {
	result := types.SuggestionResult{
		DocumentID:     "doc-1",
		TotalCitations: 1,
		Citations:      []types.Citation{testCitation("c-1", "The sky is blue today everywhere.")},
	}
	svc, st := testService(t, &fakeSuggester{result: result}, nil)

	req := uploadRequest(t, "/api/v1/citations/get-citation", "input_file", "draft.txt",
		"The sky is blue today everywhere.")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Status         string           `json:"status"`
		DocumentID     string           `json:"document_id"`
		TotalCitations int              `json:"total_citations"`
		Citations      []types.Citation `json:"citations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "doc-1", body.DocumentID)
	require.Len(t, body.Citations, 1)

	// Suggestions are persisted for review.
	stored, err := st.ListCitations(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "c-1", stored[0].ID)
	assert.Equal(t, types.StatusPendingReview, stored[0].Status)
}

func TestGetCitationPipelineError(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{err: fmt.Errorf("providers unavailable")}, nil)

	req := uploadRequest(t, "/api/v1/citations/get-citation", "input_file", "draft.txt", "Some content here.")
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func seedReviewSession(t *testing.T, st *store.Store, docID, content string, citations ...types.Citation) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.CreateDocument(ctx, docID, "draft.txt", content))
	require.NoError(t, st.AddSuggestions(ctx, docID, citations))
}

func TestReviewAcceptAndDismiss(t *testing.T) {
	svc, st := testService(t, &fakeSuggester{}, nil)
	seedReviewSession(t, st, "doc-1", "The sky is blue.",
		testCitation("c-1", "The sky is blue."),
		testCitation("c-2", "Grass is green."))

	body := `{"decisions":[
		{"citation_id":"c-1","status":"accepted","page":3},
		{"citation_id":"c-2","status":"dismissed"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	accepted, err := st.Accepted(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, "c-1", accepted[0].ID)
	assert.Equal(t, 3, accepted[0].Page)
}

func TestReviewUnknownCitation(t *testing.T) {
	svc, st := testService(t, &fakeSuggester{}, nil)
	seedReviewSession(t, st, "doc-1", "The sky is blue.", testCitation("c-1", "The sky is blue."))

	body := `{"decisions":[{"citation_id":"missing","status":"accepted"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewInvalidStatus(t *testing.T) {
	svc, st := testService(t, &fakeSuggester{}, nil)
	seedReviewSession(t, st, "doc-1", "The sky is blue.", testCitation("c-1", "The sky is blue."))

	body := `{"decisions":[{"citation_id":"c-1","status":"maybe"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinalizeStreamsAnnotatedDocument(t *testing.T) {
	svc, st := testService(t, &fakeSuggester{}, nil)
	seedReviewSession(t, st, "doc-1", "The sky is blue.", testCitation("c-1", "The sky is blue."))
	require.NoError(t, st.SetStatus(context.Background(), "doc-1", "c-1", types.StatusAccepted, 0))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/finalize?style=apa", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "modified_paper.docx")

	paras, err := extract.Docx(rec.Body.Bytes())
	require.NoError(t, err)
	var texts []string
	for _, p := range paras {
		texts = append(texts, p.Text)
	}
	joined := strings.Join(texts, "\n")
	assert.Contains(t, joined, "The sky is blue (Doe, 2021).")
	assert.Contains(t, joined, "References")
	assert.Contains(t, joined, "Doe, J. (2021)")
}

func TestFinalizeStyleDefaultsFromConfig(t *testing.T) {
	st, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "citations.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(logger, st, &fakeSuggester{}, nil, types.ServerConfig{}, types.AnnotateConfig{Style: types.StyleMLA})

	seedReviewSession(t, st, "doc-1", "The sky is blue.", testCitation("c-1", "The sky is blue."))
	require.NoError(t, st.SetStatus(context.Background(), "doc-1", "c-1", types.StatusAccepted, 0))

	// No style query parameter: the configured style applies.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/finalize", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paras, err := extract.Docx(rec.Body.Bytes())
	require.NoError(t, err)
	var texts []string
	for _, p := range paras {
		texts = append(texts, p.Text)
	}
	assert.Contains(t, strings.Join(texts, "\n"), `Jane Doe. "Relevant Paper.", 2021.`)
}

func TestFinalizeDismissedCitationsExcluded(t *testing.T) {
	svc, st := testService(t, &fakeSuggester{}, nil)
	seedReviewSession(t, st, "doc-1", "The sky is blue.", testCitation("c-1", "The sky is blue."))
	require.NoError(t, st.SetStatus(context.Background(), "doc-1", "c-1", types.StatusDismissed, 0))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/doc-1/finalize", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	paras, err := extract.Docx(rec.Body.Bytes())
	require.NoError(t, err)
	for _, p := range paras {
		assert.NotContains(t, p.Text, "(Doe, 2021)")
		assert.NotEqual(t, "References", p.Text)
	}
}

func TestFinalizeUnknownDocument(t *testing.T) {
	svc, _ := testService(t, &fakeSuggester{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/citations/missing/finalize", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		providers  []suggest.Provider
		wantStatus int
	}{
		{"providers reachable", []suggest.Provider{&fakeHealthProvider{}}, http.StatusOK},
		{"providers down", []suggest.Provider{&fakeHealthProvider{err: fmt.Errorf("timeout")}}, http.StatusServiceUnavailable},
		{"no providers configured", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := testService(t, &fakeSuggester{}, tt.providers)
			rec := httptest.NewRecorder()
			svc.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/citations/health", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
