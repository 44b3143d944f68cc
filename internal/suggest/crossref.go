// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossrefProvider queries the Crossref REST API.
type CrossrefProvider struct {
	Client *http.Client
	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string
}

// Name returns the provider identifier.
func (p *CrossrefProvider) Name() string { return "crossref" }

// Search queries the Crossref API sorted by relevance. Works without a
// title or authors are dropped.
func (p *CrossrefProvider) Search(ctx context.Context, query string, limit int, cfg types.SuggestConfig) ([]types.PaperDetails, error) {
	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", limit)},
		"sort":  {"relevance"},
	}
	if p.Mailto != "" {
		params.Set("mailto", p.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	var papers []types.PaperDetails
	for _, item := range cr.Message.Items {
		if len(item.Title) == 0 || len(item.Author) == 0 {
			continue
		}

		details := types.PaperDetails{
			Title:         strings.Join(item.Title, " "),
			URL:           item.URL,
			DOI:           item.DOI,
			Venue:         strings.Join(item.ContainerTitle, " "),
			CitationCount: item.IsReferencedByCount,
			Source:        "crossref",
			Year:          "n.d.",
		}
		for _, a := range item.Author {
			details.Authors = append(details.Authors, strings.TrimSpace(a.Given+" "+a.Family))
		}
		if year, ok := item.PublishedPrint.year(); ok {
			details.Year = fmt.Sprintf("%d", year)
		} else if year, ok := item.PublishedOnline.year(); ok {
			details.Year = fmt.Sprintf("%d", year)
		}

		papers = append(papers, details)
	}
	return papers, nil
}

// crossrefResponse mirrors the Crossref works response.
type crossrefResponse struct {
	Message struct {
		Items []crossrefWork `json:"items"`
	} `json:"message"`
}

type crossrefWork struct {
	Title               []string        `json:"title"`
	ContainerTitle      []string        `json:"container-title"`
	DOI                 string          `json:"DOI"`
	URL                 string          `json:"URL"`
	IsReferencedByCount int             `json:"is-referenced-by-count"`
	Author              []crossrefName  `json:"author"`
	PublishedPrint      crossrefPartial `json:"published-print"`
	PublishedOnline     crossrefPartial `json:"published-online"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// crossrefPartial is Crossref's date-parts structure; the first part of
// the first date is the year.
type crossrefPartial struct {
	DateParts [][]int `json:"date-parts"`
}

func (d crossrefPartial) year() (int, bool) {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] == 0 {
		return 0, false
	}
	return d.DateParts[0][0], true
}
