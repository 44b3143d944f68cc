// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls paragraph text out of uploaded documents and
// splits it into the sentences the suggestion pipeline works on.
// Supported inputs are .docx (word/document.xml inside the ZIP archive)
// and plain text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Paragraph is one paragraph of extracted document text. Index is
// one-based document order.
type Paragraph struct {
	Index   int    `json:"index" yaml:"index"`
	Text    string `json:"text" yaml:"text"`
	Heading bool   `json:"heading,omitempty" yaml:"heading,omitempty"`
}

// Format identifies a supported input document format.
type Format string

const (
	FormatDocx Format = "docx"
	FormatText Format = "txt"
)

// Detect returns the document format for a filename.
func Detect(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return FormatDocx, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", filepath.Ext(name))
	}
}

// Document extracts paragraphs from file contents, dispatching on the
// filename extension.
func Document(name string, data []byte) ([]Paragraph, error) {
	format, err := Detect(name)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatDocx:
		return Docx(data)
	default:
		return Text(data), nil
	}
}

// Text splits plain text into paragraphs on newlines. Blank lines are
// dropped; paragraph indices count the kept paragraphs.
func Text(data []byte) []Paragraph {
	var out []Paragraph
	for _, line := range strings.Split(string(data), "\n") {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		out = append(out, Paragraph{
			Index:   len(out) + 1,
			Text:    text,
			Heading: looksLikeHeading(text),
		})
	}
	return out
}

// Content joins extracted paragraphs with newlines, reconstructing the
// document body as one string.
func Content(paragraphs []Paragraph) string {
	parts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// looksLikeHeading reports whether paragraph text reads like a heading:
// fewer than eight words and no sentence punctuation.
func looksLikeHeading(text string) bool {
	if text == "" {
		return false
	}
	if len(strings.Fields(text)) >= 8 {
		return false
	}
	return !strings.ContainsAny(text, ".?!;:")
}
