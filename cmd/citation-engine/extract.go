// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract text and counts from a draft document",
	Long: `Extract reads a .docx or plain-text draft and prints its body text.
With --count it prints word and character statistics instead; with
--sentences it prints the sentences the suggestion pipeline would query,
with their paragraph and sentence positions.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	paragraphs, err := extract.Document(args[0], data)
	if err != nil {
		return err
	}

	countOnly, _ := cmd.Flags().GetBool("count")
	sentencesOnly, _ := cmd.Flags().GetBool("sentences")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch {
	case countOnly:
		return enc.Encode(extract.Count(paragraphs))
	case sentencesOnly:
		return enc.Encode(extract.Sentences(paragraphs))
	case jsonOutput:
		return enc.Encode(paragraphs)
	default:
		fmt.Println(extract.Content(paragraphs))
		return nil
	}
}

func init() {
	extractCmd.Flags().Bool("count", false, "print word and character counts")
	extractCmd.Flags().Bool("sentences", false, "print extracted sentences with positions")
	extractCmd.Flags().Bool("json", false, "output paragraphs as JSON")

	rootCmd.AddCommand(extractCmd)
}
