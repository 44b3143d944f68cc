// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation-engine
// pipeline: suggested citations, paper metadata, review state, and the
// finalize output.
package types

import "strings"

// CitationStatus tracks a suggestion through the review workflow. A
// citation is exactly one of pending, accepted, or dismissed; accepting
// and dismissing are mutually exclusive transitions out of pending.
type CitationStatus string

const (
	StatusPendingReview CitationStatus = "pending_review"
	StatusAccepted      CitationStatus = "accepted"
	StatusDismissed     CitationStatus = "dismissed"
)

// PaperDetails describes the source paper backing a suggested citation.
type PaperDetails struct {
	// Title is the paper title as returned by the search provider.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in provider order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year as a string; "n.d." when unknown.
	Year string `json:"year" yaml:"year"`

	// URL is the landing page or DOI resolver URL.
	URL string `json:"url" yaml:"url"`

	// DOI is the paper DOI, empty when the provider returned none.
	DOI string `json:"doi" yaml:"doi"`

	// Venue is the journal or conference name (optional).
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is how often the paper has been cited.
	CitationCount int `json:"citations,omitempty" yaml:"citations,omitempty"`

	// RelevanceScore is a value between 0.0 and 1.0 scoring the match
	// between the paper and the sentence it was suggested for.
	RelevanceScore float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`

	// Source identifies which provider found this paper
	// (e.g. "semantic_scholar", "crossref", "openalex").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// IdentityKey returns the key used to deduplicate papers: DOI when
// present, else URL, else the lowercased title. Annotation and reference
// formatting must use the same rule so in-text markers and the reference
// list agree on what counts as one paper.
func (p PaperDetails) IdentityKey() string {
	if p.DOI != "" {
		return p.DOI
	}
	if p.URL != "" {
		return p.URL
	}
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// CitationLocation records where in the document a suggestion was made.
// Indices are one-based, matching the positions reported by extraction.
type CitationLocation struct {
	ParagraphIndex int `json:"paragraph_index" yaml:"paragraph_index"`
	SentenceIndex  int `json:"sentence_index" yaml:"sentence_index"`
}

// Citation ties a sentence in the uploaded document to a suggested source
// paper. Created by the suggestion pipeline with status pending_review,
// mutated by user accept/dismiss actions, and consumed at finalize time.
type Citation struct {
	// ID is a UUID assigned when the suggestion is created.
	ID string `json:"id" yaml:"id"`

	// OriginalSentence is the sentence text the suggestion applies to,
	// exactly as extracted from the document.
	OriginalSentence string `json:"original_sentence" yaml:"original_sentence"`

	// PaperDetails describes the suggested source paper.
	PaperDetails PaperDetails `json:"paper_details" yaml:"paper_details"`

	// Status is pending_review, accepted, or dismissed.
	Status CitationStatus `json:"status" yaml:"status"`

	// Metadata locates the sentence within the document.
	Metadata CitationLocation `json:"metadata" yaml:"metadata"`

	// Page is an optional page number supplied during review.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`
}

// ContextInfo summarizes what the suggestion pipeline inferred about the
// document as a whole.
type ContextInfo struct {
	ResearchContext  string   `json:"research_context" yaml:"research_context"`
	DocumentCategory string   `json:"document_category" yaml:"document_category"`
	FieldKeywords    []string `json:"field_keywords" yaml:"field_keywords"`
}

// Diagnostics reports how much work the suggestion pipeline did.
type Diagnostics struct {
	ProcessedParagraphs int `json:"processed_paragraphs" yaml:"processed_paragraphs"`
	ProcessedSentences  int `json:"processed_sentences" yaml:"processed_sentences"`
	APICallsMade        int `json:"api_calls_made" yaml:"api_calls_made"`
	MaxAPICalls         int `json:"max_api_calls" yaml:"max_api_calls"`
}

// SuggestionResult is the envelope returned by the suggestion pipeline:
// one Citation per matched sentence plus document-level context.
type SuggestionResult struct {
	DocumentID     string      `json:"document_id" yaml:"document_id"`
	TotalCitations int         `json:"total_citations" yaml:"total_citations"`
	Citations      []Citation  `json:"citations" yaml:"citations"`
	ContextInfo    ContextInfo `json:"context_info" yaml:"context_info"`
	Diagnostics    Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// ProcessingResult holds the output of finalizing a document: the
// assembled Word document plus counts for the completion summary. It is
// ephemeral; nothing is retained after the download is served.
type ProcessingResult struct {
	// Document is the assembled .docx file contents.
	Document []byte `json:"-" yaml:"-"`

	// Filename is the suggested download filename.
	Filename string `json:"filename" yaml:"filename"`

	// CitationsInserted counts in-text markers actually inserted.
	CitationsInserted int `json:"citations_inserted" yaml:"citations_inserted"`

	// CitationsSkipped counts accepted citations whose sentence was not
	// found in the text (soft-fail, silently skipped).
	CitationsSkipped int `json:"citations_skipped" yaml:"citations_skipped"`

	// ReferenceCount is the number of unique papers in the reference list.
	ReferenceCount int `json:"reference_count" yaml:"reference_count"`
}
