// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/refs"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Format a reference list from citations",
	Long: `References deduplicates the papers behind a citations file and prints
one formatted reference per unique paper, in first-seen order. The
--style flag selects APA, MLA, Chicago, or Harvard; unknown styles fall
back to APA. With --csl the list is emitted as CSL YAML instead, for use
with external bibliography tooling.`,
	RunE: runReferences,
}

func runReferences(cmd *cobra.Command, args []string) error {
	citationsPath, _ := cmd.Flags().GetString("citations")
	citations, err := loadCitations(citationsPath)
	if err != nil {
		return err
	}

	if csl, _ := cmd.Flags().GetBool("csl"); csl {
		return refs.FormatCSL(citations, os.Stdout)
	}

	styleFlag, _ := cmd.Flags().GetString("style")
	for _, ref := range refs.Build(citations, types.ParseStyle(styleFlag)) {
		fmt.Println(ref.Text)
	}
	return nil
}

func init() {
	referencesCmd.Flags().String("citations", "", "citations JSON file from the suggest command")
	referencesCmd.Flags().String("style", "APA", "reference style: APA, MLA, Chicago, Harvard")
	referencesCmd.Flags().Bool("csl", false, "emit CSL YAML instead of formatted references")
	referencesCmd.MarkFlagRequired("citations")

	rootCmd.AddCommand(referencesCmd)
}
