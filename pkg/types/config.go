// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SuggestConfig holds settings for the suggestion pipeline.
type SuggestConfig struct {
	HTTPConfig `yaml:",inline"`

	// Providers lists the enabled search providers in query order
	// (default: semantic_scholar, crossref, openalex).
	Providers []string `json:"providers" yaml:"providers"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// CrossrefMailto is the contact address sent to Crossref's polite pool.
	CrossrefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty"`

	// OpenAlexEmail is the contact address for OpenAlex's polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// TopK is the number of results requested per provider (default 5).
	TopK int `json:"top_k" yaml:"top_k"`

	// Threshold is the minimum relevance score for a paper to be
	// suggested (default 0.0: any scored match qualifies).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// MaxSentences caps how many sentences are sent to the providers
	// (default 150).
	MaxSentences int `json:"max_sentences" yaml:"max_sentences"`

	// MaxAPICalls caps total provider calls for one document. Zero means
	// derive from sentence count (sentences × providers, capped at 1000).
	MaxAPICalls int `json:"max_api_calls" yaml:"max_api_calls"`

	// MinYear rejects papers published before this year (default 2015).
	// Undated papers are always rejected.
	MinYear int `json:"min_year" yaml:"min_year"`
}

// AnnotateConfig holds settings for in-text citation insertion.
type AnnotateConfig struct {
	// Style selects the reference style guide: APA, MLA, Chicago, Harvard.
	Style Style `json:"style" yaml:"style"`
}

// StoreConfig holds settings for the review-session store.
type StoreConfig struct {
	// Path is the SQLite database file (default "citations.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// MaxUploadBytes caps multipart upload size (default 16 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Suggest  SuggestConfig  `json:"suggest" yaml:"suggest"`
	Annotate AnnotateConfig `json:"annotate" yaml:"annotate"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}
