// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suggest matches document sentences against academic search
// APIs and returns citation suggestions for review. Each enabled
// provider (Semantic Scholar, Crossref, OpenAlex) implements the
// Provider interface; per sentence, results are merged, deduplicated by
// title, scored against the sentence, and the best-scoring paper above
// the threshold becomes a pending_review suggestion.
package suggest

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Provider searches a single academic API. Each provider implements
// this interface per the Strategy pattern.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int, cfg types.SuggestConfig) ([]types.PaperDetails, error)
}

// budgetCap is the hard ceiling on provider calls for one document.
const budgetCap = 1000

// NewProviders builds providers for the configured provider names.
// Unknown names are an error so config typos surface immediately.
func NewProviders(cfg types.SuggestConfig, client *http.Client) ([]Provider, error) {
	names := cfg.Providers
	if len(names) == 0 {
		names = []string{"semantic_scholar", "crossref", "openalex"}
	}

	var providers []Provider
	for _, name := range names {
		switch name {
		case "semantic_scholar":
			providers = append(providers, &SemanticScholarProvider{Client: client, APIKey: cfg.SemanticScholarAPIKey})
		case "crossref":
			providers = append(providers, &CrossrefProvider{Client: client, Mailto: cfg.CrossrefMailto})
		case "openalex":
			providers = append(providers, &OpenAlexProvider{Client: client, Email: cfg.OpenAlexEmail})
		default:
			return nil, fmt.Errorf("unknown search provider: %q", name)
		}
	}
	return providers, nil
}

// Pipeline runs the suggestion flow for one document. It holds no
// per-document state, so one Pipeline serves concurrent Run calls.
type Pipeline struct {
	Providers []Provider
	Config    types.SuggestConfig
}

// NewPipeline builds a pipeline with the given providers and
// configuration. Config defaults are applied here.
func NewPipeline(providers []Provider, cfg types.SuggestConfig) *Pipeline {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = 150
	}
	if cfg.MinYear <= 0 {
		cfg.MinYear = 2015
	}
	return &Pipeline{Providers: providers, Config: cfg}
}

// Run extracts sentences from the paragraphs, selects the ones worth
// querying, and returns one suggestion per matched sentence. The
// provider call budget is sentences times providers, capped at 1000,
// unless MaxAPICalls overrides it.
func (p *Pipeline) Run(ctx context.Context, paragraphs []extract.Paragraph) (types.SuggestionResult, error) {
	if len(p.Providers) == 0 {
		return types.SuggestionResult{}, fmt.Errorf("no search providers configured")
	}

	sentences := extract.Sentences(paragraphs)
	selected := SelectSentences(sentences, p.Config.MaxSentences)

	b := &budget{max: p.Config.MaxAPICalls}
	if b.max <= 0 {
		b.max = len(selected) * len(p.Providers)
		if b.max > budgetCap {
			b.max = budgetCap
		}
	}

	var citations []types.Citation
	for _, sentence := range selected {
		if b.spent() {
			break
		}
		c, ok := p.processSentence(ctx, sentence, b)
		if !ok {
			continue
		}
		citations = append(citations, c)
	}

	paragraphsSeen := make(map[int]bool)
	for _, s := range selected {
		paragraphsSeen[s.ParagraphIndex] = true
	}

	return types.SuggestionResult{
		DocumentID:     uuid.NewString(),
		TotalCitations: len(citations),
		Citations:      citations,
		ContextInfo:    inferContext(paragraphs),
		Diagnostics: types.Diagnostics{
			ProcessedParagraphs: len(paragraphsSeen),
			ProcessedSentences:  len(selected),
			APICallsMade:        b.calls,
			MaxAPICalls:         b.max,
		},
	}, nil
}

// processSentence fans the sentence out to all providers, dedupes the
// merged results by title, and keeps the best-scoring paper. Sentences
// with no qualifying paper produce no suggestion.
func (p *Pipeline) processSentence(ctx context.Context, sentence extract.Sentence, b *budget) (types.Citation, bool) {
	query := cleanQuery(sentence.Text)
	if query == "" {
		return types.Citation{}, false
	}

	papers := p.searchAll(ctx, query, b)

	var best types.PaperDetails
	found := false
	for _, paper := range papers {
		score := Score(sentence.Text, paper)
		if score < p.Config.Threshold {
			continue
		}
		paper.RelevanceScore = score
		if !found || score > best.RelevanceScore {
			best = paper
			found = true
		}
	}
	if !found {
		return types.Citation{}, false
	}

	// Reject stale or undated papers.
	year, err := paperYear(best)
	if err != nil || year < p.Config.MinYear {
		return types.Citation{}, false
	}

	return types.Citation{
		ID:               uuid.NewString(),
		OriginalSentence: sentence.Text,
		PaperDetails:     best,
		Status:           types.StatusPendingReview,
		Metadata: types.CitationLocation{
			ParagraphIndex: sentence.ParagraphIndex,
			SentenceIndex:  sentence.SentenceIndex,
		},
	}, true
}

// searchAll queries every provider concurrently and merges the results,
// deduplicating by lowercased title. Provider failures are skipped; a
// sentence with zero results simply yields no suggestion.
func (p *Pipeline) searchAll(ctx context.Context, query string, b *budget) []types.PaperDetails {
	type providerResult struct {
		papers []types.PaperDetails
		order  int
	}

	ch := make(chan providerResult, len(p.Providers))
	var wg sync.WaitGroup

	launched := 0
	for i, provider := range p.Providers {
		if !b.charge() {
			break
		}
		launched++
		wg.Add(1)
		go func(order int, provider Provider) {
			defer wg.Done()
			papers, err := provider.Search(ctx, query, p.Config.TopK, p.Config)
			if err != nil {
				ch <- providerResult{order: order}
				return
			}
			ch <- providerResult{papers: papers, order: order}
		}(i, provider)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	results := make([][]types.PaperDetails, launched)
	for pr := range ch {
		results[pr.order] = pr.papers
	}

	seen := make(map[string]bool)
	var merged []types.PaperDetails
	for _, papers := range results {
		for _, paper := range papers {
			title := strings.ToLower(strings.TrimSpace(paper.Title))
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			merged = append(merged, paper)
		}
	}
	return merged
}

// budget tracks the provider call allowance for one Run.
type budget struct {
	mu    sync.Mutex
	calls int
	max   int
}

// charge consumes one unit of the API call budget. It returns false when
// the budget is spent.
func (b *budget) charge() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls >= b.max {
		return false
	}
	b.calls++
	return true
}

func (b *budget) spent() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls >= b.max
}

// paperYear parses the paper year string. "n.d." and other non-numeric
// values are errors.
func paperYear(paper types.PaperDetails) (int, error) {
	var year int
	if _, err := fmt.Sscanf(strings.TrimSpace(paper.Year), "%d", &year); err != nil {
		return 0, fmt.Errorf("no publication year")
	}
	return year, nil
}

// inferContext derives coarse document-level context from the extracted
// text: the first heading as category and the most frequent non-stop
// words as field keywords.
func inferContext(paragraphs []extract.Paragraph) types.ContextInfo {
	info := types.ContextInfo{}
	for _, p := range paragraphs {
		if p.Heading {
			info.DocumentCategory = p.Text
			break
		}
	}

	counts := make(map[string]int)
	for _, p := range paragraphs {
		if p.Heading {
			continue
		}
		for _, w := range strings.Fields(strings.ToLower(p.Text)) {
			w = strings.Trim(w, ".,;:!?()\"'")
			if len(w) < 5 || stopWords[w] {
				continue
			}
			counts[w]++
		}
	}

	type wordCount struct {
		word  string
		count int
	}
	var ranked []wordCount
	for w, c := range counts {
		if c > 1 {
			ranked = append(ranked, wordCount{w, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	for i := 0; i < len(ranked) && i < 5; i++ {
		info.FieldKeywords = append(info.FieldKeywords, ranked[i].word)
	}
	return info
}
