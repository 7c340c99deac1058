// Package moderation gates free-text submissions against a keyword blocklist.
//
// Matching is a case-insensitive substring test with no word-boundary
// detection, so a blocked term anywhere in the text flags it. Text that matches
// nothing is allowed. This is a best-effort gate, not a security boundary.
package moderation

import "strings"

// DefaultBlocklist holds the English and Arabic terms rejected by the forum.
var DefaultBlocklist = []string{
	// English
	"hate",
	"stupid",
	"idiot",
	"fool",
	"damn",
	"kill",
	"shut up",
	"loser",
	"trash",
	// Arabic
	"كراهية",
	"أكره",
	"غبي",
	"أحمق",
	"تافه",
	"حقير",
	"اخرس",
	"اقتل",
}

// Filter checks text against a fixed, lower-cased blocklist.
type Filter struct {
	terms []string
}

// New builds a Filter. With no terms it uses DefaultBlocklist.
func New(terms ...string) *Filter {
	if len(terms) == 0 {
		terms = DefaultBlocklist
	}
	lowered := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		lowered = append(lowered, term)
	}
	return &Filter{terms: lowered}
}

// IsFlagged reports whether text contains any blocked term.
func (f *Filter) IsFlagged(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range f.terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

var defaultFilter = New()

// IsFlagged checks text against DefaultBlocklist.
func IsFlagged(text string) bool {
	return defaultFilter.IsFlagged(text)
}
