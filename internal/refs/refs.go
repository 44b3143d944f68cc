// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs renders the reference list for accepted citations.
// Citations are deduplicated by paper identity (DOI, else URL, else
// title) and rendered one reference per unique paper in the requested
// style guide: APA, MLA, Chicago, or Harvard.
package refs

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Reference is one rendered entry in the reference list. URL is kept
// separate from the text so the document assembler can attach it as a
// hyperlink.
type Reference struct {
	Text string `json:"text" yaml:"text"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Dedupe returns the citations with duplicate papers removed, keyed by
// DOI, else URL, else lowercased title, preserving first-seen order.
// This is the same identity rule annotation uses, so the reference count
// always equals the number of distinct papers cited.
func Dedupe(citations []types.Citation) []types.Citation {
	seen := make(map[string]bool, len(citations))
	out := make([]types.Citation, 0, len(citations))
	for _, c := range citations {
		key := c.PaperDetails.IdentityKey()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Build deduplicates the citations and renders one reference per unique
// paper in the given style. Unrecognized styles render as APA.
func Build(citations []types.Citation, style types.Style) []Reference {
	unique := Dedupe(citations)
	out := make([]Reference, 0, len(unique))
	for _, c := range unique {
		out = append(out, Format(c.PaperDetails, style))
	}
	return out
}

// Format renders a single paper as a reference in the given style.
func Format(p types.PaperDetails, style types.Style) Reference {
	year := strings.TrimSpace(p.Year)
	if year == "" {
		year = "n.d."
	}

	var text string
	switch style {
	case types.StyleMLA:
		text = fmt.Sprintf("%s. \"%s.\", %s.", AuthorList(p.Authors, types.StyleMLA), p.Title, year)
	case types.StyleChicago:
		text = fmt.Sprintf("%s. \"%s\"., %s.", AuthorList(p.Authors, types.StyleChicago), p.Title, year)
	case types.StyleHarvard:
		text = fmt.Sprintf("%s (%s) %s.", AuthorList(p.Authors, types.StyleHarvard), year, p.Title)
	default: // APA and anything unrecognized
		text = fmt.Sprintf("%s (%s). \"%s\".", AuthorList(p.Authors, types.StyleAPA), year, sentenceCase(p.Title))
	}

	return Reference{Text: text, URL: p.URL}
}

// AuthorList formats the author names for a reference in the given style.
// An empty author list renders as "Unknown Author" in every style.
func AuthorList(authors []string, style types.Style) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if s := strings.TrimSpace(a); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		return "Unknown Author"
	}

	switch style {
	case types.StyleAPA, types.StyleHarvard:
		formatted := make([]string, len(names))
		for i, n := range names {
			formatted[i] = surnameInitials(n)
		}
		if len(formatted) > 1 {
			return strings.Join(formatted[:len(formatted)-1], ", ") + ", & " + formatted[len(formatted)-1]
		}
		return formatted[0]

	case types.StyleMLA:
		switch len(names) {
		case 1:
			return names[0]
		case 2:
			return names[0] + " and " + names[1]
		default:
			return names[0] + " et al."
		}

	default: // Chicago
		return strings.Join(names, ", ")
	}
}

// surnameInitials converts "Jane Mary Doe" to "Doe, J. M.". A single-token
// name is returned unchanged.
func surnameInitials(name string) string {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	surname := fields[len(fields)-1]
	initials := make([]string, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		r := []rune(f)
		initials = append(initials, string(unicode.ToUpper(r[0]))+".")
	}
	return surname + ", " + strings.Join(initials, " ")
}

// sentenceCase uppercases the first letter and lowercases the rest.
// APA references render titles in sentence case.
func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
