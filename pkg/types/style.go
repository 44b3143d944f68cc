// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Style is a citation style guide governing reference rendering.
type Style string

const (
	StyleAPA     Style = "APA"
	StyleMLA     Style = "MLA"
	StyleChicago Style = "Chicago"
	StyleHarvard Style = "Harvard"
)

// ParseStyle normalizes a style name. Unrecognized names fall back to APA,
// matching how the formatter treats unknown styles.
func ParseStyle(s string) Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mla":
		return StyleMLA
	case "chicago":
		return StyleChicago
	case "harvard":
		return StyleHarvard
	default:
		return StyleAPA
	}
}
