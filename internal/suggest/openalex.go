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

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexProvider queries the OpenAlex API.
type OpenAlexProvider struct {
	Client *http.Client
	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

// Name returns the provider identifier.
func (p *OpenAlexProvider) Name() string { return "openalex" }

// Search queries the OpenAlex API sorted by relevance score. Works
// without a title or authors are dropped.
func (p *OpenAlexProvider) Search(ctx context.Context, query string, limit int, cfg types.SuggestConfig) ([]types.PaperDetails, error) {
	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", limit)},
		"sort":     {"relevance_score:desc"},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	// OpenAlex signals overload with transient 5xx rather than 429.
	resp, err := httputil.DoWithBackoff(ctx, p.Client, req, 3)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oa openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oa); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var papers []types.PaperDetails
	for _, work := range oa.Results {
		if work.Title == "" || len(work.Authorships) == 0 {
			continue
		}

		details := types.PaperDetails{
			Title:         work.Title,
			URL:           work.PrimaryLocation.LandingPageURL,
			DOI:           strings.TrimPrefix(work.DOI, "https://doi.org/"),
			Venue:         work.PrimaryLocation.Source.DisplayName,
			CitationCount: work.CitedByCount,
			Source:        "openalex",
			Year:          "n.d.",
		}
		for _, a := range work.Authorships {
			details.Authors = append(details.Authors, a.Author.DisplayName)
		}
		if work.PublicationYear > 0 {
			details.Year = fmt.Sprintf("%d", work.PublicationYear)
		}

		papers = append(papers, details)
	}
	return papers, nil
}

// openAlexResponse mirrors the OpenAlex works response.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	Title           string `json:"title"`
	DOI             string `json:"doi"`
	PublicationYear int    `json:"publication_year"`
	CitedByCount    int    `json:"cited_by_count"`
	PrimaryLocation struct {
		LandingPageURL string `json:"landing_page_url"`
		Source         struct {
			DisplayName string `json:"display_name"`
		} `json:"source"`
	} `json:"primary_location"`
	Authorships []struct {
		Author struct {
			DisplayName string `json:"display_name"`
		} `json:"author"`
	} `json:"authorships"`
}
