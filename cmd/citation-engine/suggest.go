// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [file]",
	Short: "Suggest citations for a draft document",
	Long: `Suggest extracts sentences from a draft, queries the configured academic
search providers for each one, and prints a suggestion result as JSON:
one citation per matched sentence, each with paper details, a relevance
score, and a pending_review status. The output feeds the annotate,
references, and assemble commands.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	paragraphs, err := extract.Document(args[0], data)
	if err != nil {
		return err
	}

	cfg := suggestConfigFromFlags(cmd)
	providers, err := suggest.NewProviders(cfg, newHTTPClient(cfg))
	if err != nil {
		return err
	}

	result, err := suggest.NewPipeline(providers, cfg).Run(context.Background(), paragraphs)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "suggested %d citation(s) from %d sentence(s), %d API call(s)\n",
		result.TotalCitations,
		result.Diagnostics.ProcessedSentences,
		result.Diagnostics.APICallsMade)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	addSuggestFlags(suggestCmd)
	rootCmd.AddCommand(suggestCmd)
}
