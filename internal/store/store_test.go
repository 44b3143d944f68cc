package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "citations.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testCitation(id, sentence string) types.Citation {
	return types.Citation{
		ID:               id,
		OriginalSentence: sentence,
		PaperDetails: types.PaperDetails{
			Title:   "Paper for " + id,
			Authors: []string{"Jane Doe"},
			Year:    "2021",
			URL:     "https://example.org/" + id,
		},
		Status: types.StatusPendingReview,
		Metadata: types.CitationLocation{
			ParagraphIndex: 1,
			SentenceIndex:  1,
		},
	}
}

func seedDocument(t *testing.T, s *Store, docID string, citations ...types.Citation) {
	t.Helper()
	ctx := context.Background()
	if err := s.CreateDocument(ctx, docID, "draft.docx", "Document body text."); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSuggestions(ctx, docID, citations); err != nil {
		t.Fatal(err)
	}
}

// --- documents ---

func TestDocumentRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, "doc-1", "draft.docx", "The body."); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	filename, content, err := s.Document(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if filename != "draft.docx" || content != "The body." {
		t.Errorf("got %q, %q", filename, content)
	}
}

func TestDocumentNotFound(t *testing.T) {
	s := testStore(t)

	_, _, err := s.Document(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDuplicateDocumentID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.CreateDocument(ctx, "doc-1", "a.docx", "A."); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateDocument(ctx, "doc-1", "b.docx", "B."); err == nil {
		t.Error("expected error for duplicate document ID")
	}
}

// --- citations ---

func TestListCitationsInsertionOrder(t *testing.T) {
	s := testStore(t)
	seedDocument(t, s, "doc-1",
		testCitation("c-1", "First sentence."),
		testCitation("c-2", "Second sentence."),
		testCitation("c-3", "Third sentence."),
	)

	citations, err := s.ListCitations(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListCitations: %v", err)
	}

	if len(citations) != 3 {
		t.Fatalf("len = %d, want 3", len(citations))
	}
	for i, want := range []string{"c-1", "c-2", "c-3"} {
		if citations[i].ID != want {
			t.Errorf("citations[%d].ID = %q, want %q", i, citations[i].ID, want)
		}
	}
	if citations[0].PaperDetails.Title != "Paper for c-1" {
		t.Errorf("paper details not round-tripped: %+v", citations[0].PaperDetails)
	}
	if citations[0].Status != types.StatusPendingReview {
		t.Errorf("status = %q", citations[0].Status)
	}
}

func TestSetStatusAcceptAndDismiss(t *testing.T) {
	s := testStore(t)
	seedDocument(t, s, "doc-1",
		testCitation("c-1", "First sentence."),
		testCitation("c-2", "Second sentence."),
	)
	ctx := context.Background()

	if err := s.SetStatus(ctx, "doc-1", "c-1", types.StatusAccepted, 12); err != nil {
		t.Fatalf("SetStatus accept: %v", err)
	}
	if err := s.SetStatus(ctx, "doc-1", "c-2", types.StatusDismissed, 0); err != nil {
		t.Fatalf("SetStatus dismiss: %v", err)
	}

	c, err := s.Citation(ctx, "doc-1", "c-1")
	if err != nil {
		t.Fatalf("Citation: %v", err)
	}
	if c.Status != types.StatusAccepted || c.Page != 12 {
		t.Errorf("citation = %+v", c)
	}

	accepted, err := s.Accepted(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Accepted: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != "c-1" {
		t.Errorf("accepted = %+v", accepted)
	}
}

func TestSetStatusValidation(t *testing.T) {
	s := testStore(t)
	seedDocument(t, s, "doc-1", testCitation("c-1", "First sentence."))
	ctx := context.Background()

	if err := s.SetStatus(ctx, "doc-1", "c-1", types.StatusPendingReview, 0); err == nil {
		t.Error("expected error moving back to pending_review")
	}
	if err := s.SetStatus(ctx, "doc-1", "c-1", "bogus", 0); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := s.SetStatus(ctx, "doc-1", "missing", types.StatusAccepted, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCitationsScopedToDocument(t *testing.T) {
	s := testStore(t)
	seedDocument(t, s, "doc-1", testCitation("c-1", "First sentence."))
	seedDocument(t, s, "doc-2", testCitation("c-2", "Other sentence."))
	ctx := context.Background()

	citations, err := s.ListCitations(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(citations) != 1 || citations[0].ID != "c-1" {
		t.Errorf("doc-1 citations = %+v", citations)
	}

	if _, err := s.Citation(ctx, "doc-1", "c-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-document lookup should miss, got %v", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	s := testStore(t)
	seedDocument(t, s, "doc-1", testCitation("c-1", "First sentence."))
	ctx := context.Background()

	if err := s.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, _, err := s.Document(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("document should be gone, got %v", err)
	}
	citations, err := s.ListCitations(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(citations) != 0 {
		t.Errorf("citations = %+v, want none", citations)
	}
}
