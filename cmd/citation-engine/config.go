// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// suggestConfigFromFlags builds the pipeline configuration from command
// flags, the viper config file, and loaded secrets, in that precedence.
func suggestConfigFromFlags(cmd *cobra.Command) types.SuggestConfig {
	providersFlag, _ := cmd.Flags().GetString("providers")
	topK, _ := cmd.Flags().GetInt("top-k")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	maxSentences, _ := cmd.Flags().GetInt("max-sentences")
	maxAPICalls, _ := cmd.Flags().GetInt("max-api-calls")
	minYear, _ := cmd.Flags().GetInt("min-year")

	var providers []string
	if providersFlag != "" {
		for _, p := range strings.Split(providersFlag, ",") {
			providers = append(providers, strings.TrimSpace(p))
		}
	} else {
		providers = viper.GetStringSlice("suggest.providers")
	}

	return types.SuggestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "citation-engine/" + version,
		},
		Providers:             providers,
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("suggest.semantic_scholar_api_key")),
		CrossrefMailto:        secretDefault("crossref-mailto", viper.GetString("suggest.crossref_mailto")),
		OpenAlexEmail:         secretDefault("openalex-email", viper.GetString("suggest.openalex_email")),
		TopK:                  topK,
		Threshold:             threshold,
		MaxSentences:          maxSentences,
		MaxAPICalls:           maxAPICalls,
		MinYear:               minYear,
	}
}

// newHTTPClient returns the shared client for provider requests.
func newHTTPClient(cfg types.SuggestConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// addSuggestFlags registers the provider and scoring flags shared by the
// suggest and serve commands.
func addSuggestFlags(cmd *cobra.Command) {
	cmd.Flags().String("providers", "", "search providers, comma-separated (default: semantic_scholar,crossref,openalex)")
	cmd.Flags().Int("top-k", 5, "results requested per provider")
	cmd.Flags().Float64("threshold", 0.0, "minimum relevance score for a suggestion")
	cmd.Flags().Int("max-sentences", 150, "maximum sentences sent to providers")
	cmd.Flags().Int("max-api-calls", 0, "provider call budget (0: derive from sentence count)")
	cmd.Flags().Int("min-year", 2015, "reject papers published before this year")
}

// loadCitations reads a citations JSON file: either a bare array or a
// suggestion result envelope with a "citations" field.
func loadCitations(path string) ([]types.Citation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading citations file: %w", err)
	}

	var citations []types.Citation
	if err := json.Unmarshal(data, &citations); err == nil {
		return citations, nil
	}

	var result types.SuggestionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing citations file %s: %w", path, err)
	}
	return result.Citations, nil
}
