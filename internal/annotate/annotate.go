// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate inserts in-text citation markers into document text.
// Accepted citations are matched back to their original sentences and an
// author-year marker is appended to each matched sentence, before the
// trailing punctuation when present.
package annotate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Result reports what annotation did with the accepted citations.
type Result struct {
	// Inserted counts markers actually written into the text.
	Inserted int

	// Skipped counts citations whose sentence was not found in the text.
	// Missing sentences are a soft failure: the text is left unchanged
	// for that citation and no error is raised.
	Skipped int
}

// Annotate returns text with an in-text citation marker appended to each
// accepted citation's original sentence. Citations are processed longest
// sentence first so a sentence that contains another citation's sentence
// as a substring is annotated before the shorter one can match inside it.
//
// Matching is case-insensitive and tolerates differences in whitespace
// between the stored sentence and the document text. Only the first
// occurrence of a sentence is annotated. A sentence that already carries
// the marker is left alone, so annotating twice with the same citations
// does not duplicate markers. When two citations share an identical
// original sentence the first one in input order wins.
func Annotate(text string, citations []types.Citation) (string, Result) {
	var res Result

	ordered := dedupeBySentence(citations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].OriginalSentence) > len(ordered[j].OriginalSentence)
	})

	for _, c := range ordered {
		body, hadPunct, ok := sentenceBody(c.OriginalSentence)
		if !ok {
			res.Skipped++
			continue
		}

		bodyPattern := sentencePattern(body)
		marker := Marker(c.PaperDetails)

		// The sentence already carries this marker somewhere: leave the
		// text alone so repeated annotation cannot duplicate markers.
		annotated, err := regexp.Compile(bodyPattern + `\s*` + regexp.QuoteMeta(marker))
		if err != nil {
			res.Skipped++
			continue
		}
		if annotated.MatchString(text) {
			continue
		}

		// When the stored sentence ends with punctuation, require it in
		// the text too. This keeps a sentence that is a prefix of a longer
		// one from matching inside it. Without punctuation, require a word
		// boundary so the match cannot end mid-word.
		pattern := bodyPattern
		if hadPunct {
			pattern += `[.!?]`
		} else {
			pattern += `\b`
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			res.Skipped++
			continue
		}

		loc := re.FindStringIndex(text)
		if loc == nil {
			res.Skipped++
			continue
		}

		insert := loc[1]
		if hadPunct {
			insert-- // before the trailing punctuation
		}
		text = text[:insert] + " " + marker + text[insert:]
		res.Inserted++
	}

	return text, res
}

// Marker renders the in-text citation for a paper: (Doe, 2020) for one
// author, (Doe & Roe, 2020) for two, (Doe et al., 2020) for three or
// more, (Unknown, 2020) when no authors are known. A missing year
// renders as "n.d.".
func Marker(p types.PaperDetails) string {
	year := p.Year
	if strings.TrimSpace(year) == "" {
		year = "n.d."
	}

	var names []string
	for _, a := range p.Authors {
		if n := lastName(a); n != "" {
			names = append(names, n)
		}
	}

	switch len(names) {
	case 0:
		return fmt.Sprintf("(Unknown, %s)", year)
	case 1:
		return fmt.Sprintf("(%s, %s)", names[0], year)
	case 2:
		return fmt.Sprintf("(%s & %s, %s)", names[0], names[1], year)
	default:
		return fmt.Sprintf("(%s et al., %s)", names[0], year)
	}
}

// lastName returns the final token of a full author name.
func lastName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// dedupeBySentence drops citations whose original sentence duplicates an
// earlier one, preserving input order.
func dedupeBySentence(citations []types.Citation) []types.Citation {
	seen := make(map[string]bool, len(citations))
	out := make([]types.Citation, 0, len(citations))
	for _, c := range citations {
		key := strings.ToLower(strings.Join(strings.Fields(c.OriginalSentence), " "))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// sentenceBody strips trailing sentence punctuation so the marker can be
// inserted before it. It reports whether punctuation was stripped and
// whether anything matchable remains.
func sentenceBody(sentence string) (body string, hadPunct, ok bool) {
	body = strings.TrimSpace(sentence)
	trimmed := strings.TrimRight(body, ".!?")
	hadPunct = trimmed != body
	body = strings.TrimSpace(trimmed)
	return body, hadPunct, body != ""
}

// sentencePattern builds a case-insensitive pattern that matches the
// sentence body literally, with any run of whitespace in the stored
// sentence matching any run of whitespace in the text.
func sentencePattern(body string) string {
	fields := strings.Fields(body)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return `(?i)` + strings.Join(quoted, `\s+`)
}
