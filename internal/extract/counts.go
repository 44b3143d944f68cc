// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// wordRe matches words: any run of non-whitespace characters.
var wordRe = regexp.MustCompile(`\S+`)

// CountStats holds word and character counts for a document.
type CountStats struct {
	WordCount              int `json:"word_count" yaml:"word_count"`
	CharacterCount         int `json:"character_count" yaml:"character_count"`
	CharacterCountNoSpaces int `json:"character_count_no_spaces" yaml:"character_count_no_spaces"`
	ParagraphCount         int `json:"paragraph_count" yaml:"paragraph_count"`
}

// Count computes word, character, and paragraph counts over extracted
// paragraphs. Paragraph text is joined with single spaces before
// counting characters; the paragraph count covers nonblank paragraphs
// only (blank ones are already dropped at extraction).
func Count(paragraphs []Paragraph) CountStats {
	parts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		parts[i] = p.Text
	}
	text := strings.Join(parts, " ")

	return CountStats{
		WordCount:              len(wordRe.FindAllString(text, -1)),
		CharacterCount:         len([]rune(text)),
		CharacterCountNoSpaces: len([]rune(strings.ReplaceAll(text, " ", ""))),
		ParagraphCount:         len(paragraphs),
	}
}
