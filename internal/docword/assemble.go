// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docword

import (
	"strings"

	"github.com/pdiddy/citation-engine/internal/annotate"
	"github.com/pdiddy/citation-engine/internal/refs"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// DownloadFilename is the default filename for a finalized document.
const DownloadFilename = "modified_paper.docx"

// Assemble builds a .docx from annotated document content and its
// reference list. Content lines become body paragraphs; references are
// added under a "References" heading, hyperlinked when the paper has a
// URL. An empty reference list omits the section.
func Assemble(content string, references []refs.Reference) ([]byte, error) {
	var b Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.AddParagraph(line)
	}

	if len(references) > 0 {
		b.AddHeading("References", 1)
		for _, ref := range references {
			b.AddReference(ref.Text, ref.URL)
		}
	}

	return b.Bytes()
}

// Process runs the full finalize step: annotate the content with the
// accepted citations, format the reference list in the configured style,
// and assemble the downloadable document.
func Process(content string, accepted []types.Citation, cfg types.AnnotateConfig) (types.ProcessingResult, error) {
	annotated, annotation := annotate.Annotate(content, accepted)
	references := refs.Build(accepted, cfg.Style)

	doc, err := Assemble(annotated, references)
	if err != nil {
		return types.ProcessingResult{}, err
	}

	return types.ProcessingResult{
		Document:          doc,
		Filename:          DownloadFilename,
		CitationsInserted: annotation.Inserted,
		CitationsSkipped:  annotation.Skipped,
		ReferenceCount:    len(references),
	}, nil
}
