// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

// minSentenceLength filters out fragments too short to be worth sending
// to the search providers.
const minSentenceLength = 15

// sentenceEndRe finds sentence boundaries: terminal punctuation followed
// by whitespace.
var sentenceEndRe = regexp.MustCompile(`([.!?]+)\s+`)

// Sentence is one sentence of body text with its document position.
// Indices are one-based; SentenceIndex restarts per paragraph.
type Sentence struct {
	Text           string `json:"text" yaml:"text"`
	ParagraphIndex int    `json:"paragraph_index" yaml:"paragraph_index"`
	SentenceIndex  int    `json:"sentence_index" yaml:"sentence_index"`
}

// Sentences splits body paragraphs into sentences, skipping headings and
// sentences shorter than 15 characters.
func Sentences(paragraphs []Paragraph) []Sentence {
	var out []Sentence
	for _, p := range paragraphs {
		if p.Heading {
			continue
		}
		for i, s := range SplitSentences(p.Text) {
			if len(s) < minSentenceLength {
				continue
			}
			out = append(out, Sentence{
				Text:           s,
				ParagraphIndex: p.Index,
				SentenceIndex:  i + 1,
			})
		}
	}
	return out
}

// SplitSentences splits a paragraph into sentences at terminal
// punctuation followed by whitespace. The punctuation stays with its
// sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	last := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(text, -1) {
		// m[0]..m[1] spans the punctuation and trailing whitespace; the
		// sentence ends after the punctuation.
		end := m[1]
		for end > m[0] && isSpaceByte(text[end-1]) {
			end--
		}
		s := strings.TrimSpace(text[last:end])
		if s != "" {
			out = append(out, s)
		}
		last = m[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
