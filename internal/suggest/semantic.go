// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,year,venue,citationCount,url,externalIds"

// SemanticScholarProvider queries the Semantic Scholar API.
type SemanticScholarProvider struct {
	Client *http.Client
	APIKey string
}

// Name returns the provider identifier.
func (p *SemanticScholarProvider) Name() string { return "semantic_scholar" }

// Search queries the Semantic Scholar API and returns matching papers.
// Papers without a title or authors are dropped.
func (p *SemanticScholarProvider) Search(ctx context.Context, query string, limit int, cfg types.SuggestConfig) ([]types.PaperDetails, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if p.APIKey != "" {
		req.Header.Set("x-api-key", p.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.PaperDetails
	for _, paper := range sr.Data {
		if paper.Title == "" || len(paper.Authors) == 0 {
			continue
		}

		details := types.PaperDetails{
			Title:         paper.Title,
			URL:           paper.URL,
			DOI:           paper.ExternalIDs.DOI,
			Venue:         paper.Venue,
			CitationCount: paper.CitationCount,
			Source:        "semantic_scholar",
		}
		for _, a := range paper.Authors {
			details.Authors = append(details.Authors, a.Name)
		}
		if paper.Year > 0 {
			details.Year = fmt.Sprintf("%d", paper.Year)
		} else {
			details.Year = "n.d."
		}

		papers = append(papers, details)
	}
	return papers, nil
}

// semanticResponse mirrors the Semantic Scholar search response.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Venue         string           `json:"venue"`
	Year          int              `json:"year"`
	CitationCount int              `json:"citationCount"`
	URL           string           `json:"url"`
	Authors       []semanticAuthor `json:"authors"`
	ExternalIDs   struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}
