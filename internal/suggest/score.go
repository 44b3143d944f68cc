// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/internal/extract"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// stopWords are excluded from overlap scoring and keyword extraction.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"in": true, "on": true, "to": true, "for": true, "of": true,
	"is": true, "are": true, "was": true, "were": true,
}

// academicKeywords mark sentences likely to need a citation. Sentence
// selection prefers these when the document exceeds the sentence cap.
var academicKeywords = []string{
	"study", "research", "analysis", "data", "results", "findings", "evidence",
	"method", "approach", "theory", "model", "framework", "hypothesis",
	"significant", "correlation", "impact", "effect", "relationship",
	"according", "reported", "demonstrated", "showed", "indicated",
}

// SelectSentences caps the sentences sent to the providers. When the
// document exceeds the cap, sentences containing academic keywords are
// kept first, then the remainder fills up in document order.
func SelectSentences(sentences []extract.Sentence, max int) []extract.Sentence {
	if max <= 0 || len(sentences) <= max {
		return sentences
	}

	var priority, regular []extract.Sentence
	for _, s := range sentences {
		if hasAcademicKeyword(s.Text) {
			priority = append(priority, s)
		} else {
			regular = append(regular, s)
		}
	}

	if len(priority) >= max {
		return priority[:max]
	}
	return append(priority, regular[:max-len(priority)]...)
}

func hasAcademicKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range academicKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Score rates how well a paper matches a sentence: the fraction of
// non-stop sentence words appearing in the title, weighted 0.8, with
// multiplicative boosts for recency (x1.2 from 2020, x1.1 from 2015)
// and citation count (x1.1 above 100, x1.05 above 50), capped at 1.0.
func Score(sentence string, paper types.PaperDetails) float64 {
	if sentence == "" || len(paper.Authors) == 0 {
		return 0.0
	}

	sentenceWords := contentWords(sentence)
	if len(sentenceWords) == 0 {
		return 0.0
	}
	titleWords := contentWords(paper.Title)

	overlap := 0
	for w := range sentenceWords {
		if titleWords[w] {
			overlap++
		}
	}
	score := float64(overlap) / float64(len(sentenceWords)) * 0.8

	if year, err := strconv.Atoi(strings.TrimSpace(paper.Year)); err == nil {
		switch {
		case year >= 2020:
			score *= 1.2
		case year >= 2015:
			score *= 1.1
		}
	}

	switch {
	case paper.CitationCount > 100:
		score *= 1.1
	case paper.CitationCount > 50:
		score *= 1.05
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// contentWords returns the lowercased non-stop words of a text.
func contentWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

// cleanQuery normalizes sentence text into a provider query: list
// bullets and numeric prefixes are stripped and the query is capped at
// fifteen words.
func cleanQuery(query string) string {
	query = strings.TrimSpace(query)
	for _, bullet := range []string{"-", "•"} {
		if strings.HasPrefix(query, bullet) {
			query = strings.TrimSpace(strings.TrimPrefix(query, bullet))
		}
	}
	if query != "" && query[0] >= '0' && query[0] <= '9' {
		if head := query[:min(5, len(query))]; strings.Contains(head, ".") {
			if _, rest, ok := strings.Cut(query, "."); ok {
				query = strings.TrimSpace(rest)
			}
		}
	}

	words := strings.Fields(query)
	if len(words) > 15 {
		words = words[:15]
	}
	return strings.Join(words, " ")
}
