// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/docword"
	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble [file]",
	Short: "Build the final cited Word document",
	Long: `Assemble runs annotation and reference formatting in one pass and
writes a .docx: the draft text with in-text markers inserted, followed by
a References section where each entry with a URL is a styled hyperlink.
Citations come from a suggest output file via --citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
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

	styleFlag, _ := cmd.Flags().GetString("style")
	cfg := types.AnnotateConfig{Style: types.ParseStyle(styleFlag)}

	result, err := docword.Process(extract.Content(paragraphs), citations, cfg)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(output, result.Document, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Fprintf(os.Stderr, "wrote %s: %d marker(s) inserted, %d skipped, %d reference(s)\n",
		output, result.CitationsInserted, result.CitationsSkipped, result.ReferenceCount)
	return nil
}

func init() {
	assembleCmd.Flags().String("citations", "", "citations JSON file from the suggest command")
	assembleCmd.Flags().String("style", "APA", "reference style: APA, MLA, Chicago, Harvard")
	assembleCmd.Flags().String("output", "cited.docx", "output .docx path")
	assembleCmd.MarkFlagRequired("citations")

	rootCmd.AddCommand(assembleCmd)
}
