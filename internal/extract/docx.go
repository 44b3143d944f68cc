// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Docx parses .docx file contents by reading word/document.xml from the
// ZIP archive. Paragraphs styled Heading*/Title/Subtitle are marked as
// headings, as are short style-less paragraphs without sentence
// punctuation.
func Docx(data []byte) ([]Paragraph, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []Paragraph
	var currentText strings.Builder
	var inParagraph bool
	var paragraphStyle string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						paragraphStyle = attr.Value
					}
				}
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				paragraphs = append(paragraphs, Paragraph{
					Index:   len(paragraphs) + 1,
					Text:    text,
					Heading: styleIsHeading(paragraphStyle) || (paragraphStyle == "" && looksLikeHeading(text)),
				})
			}
		}
	}

	return paragraphs, nil
}

// styleIsHeading reports whether a paragraph style name marks a heading:
// "Title", "Subtitle", or any style starting with "Heading".
func styleIsHeading(style string) bool {
	lower := strings.ToLower(style)
	return lower == "title" || lower == "subtitle" || strings.HasPrefix(lower, "heading")
}
