// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/annotate"
	"github.com/pdiddy/citation-engine/internal/extract"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Insert in-text citation markers into a draft",
	Long: `Annotate matches each citation's original sentence against the draft
text and appends an author-year marker, e.g. (Doe, 2020), before the
sentence's trailing punctuation. Sentences that cannot be located are
skipped. Citations come from a suggest output file via --citations;
markers are only inserted once, so re-running is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	citationsPath, _ := cmd.Flags().GetString("citations")
	citations, err := loadCitations(citationsPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	paragraphs, err := extract.Document(args[0], data)
	if err != nil {
		return err
	}

	annotated, result := annotate.Annotate(extract.Content(paragraphs), citations)

	fmt.Fprintf(os.Stderr, "inserted %d marker(s), skipped %d\n", result.Inserted, result.Skipped)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Println(annotated)
		return nil
	}
	return os.WriteFile(output, []byte(annotated+"\n"), 0o644)
}

func init() {
	annotateCmd.Flags().String("citations", "", "citations JSON file from the suggest command")
	annotateCmd.Flags().String("output", "", "write annotated text to a file instead of stdout")
	annotateCmd.MarkFlagRequired("citations")

	rootCmd.AddCommand(annotateCmd)
}
