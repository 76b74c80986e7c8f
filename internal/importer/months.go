package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/model"
)

// monthNumbers is the fixed English month lookup. Abbreviations and full
// names only; anything else falls back to January.
var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// resolveMonth maps a free-text month label to 1-12. Unparseable labels,
// "Unknown" and empty labels resolve to month 1.
func resolveMonth(label string) int {
	if n, ok := monthNumbers[strings.ToLower(strings.TrimSpace(label))]; ok {
		return n
	}
	return 1
}

// evaluationDate builds the canonical first-of-month evaluation date.
func evaluationDate(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

var nonLetters = regexp.MustCompile(`[^a-z]+`)

// normalizeParamName lower-cases a sheet parameter header and strips
// everything but letters, so "KB Potential?" and "kb_potential" compare equal.
func normalizeParamName(name string) string {
	return nonLetters.ReplaceAllString(strings.ToLower(name), "")
}

// applyParameter maps one sheet parameter onto its case field by substring
// match over the normalized name, first match wins. Unrecognized names are
// dropped and reported false.
func applyParameter(fields *model.CaseFields, name string, value *bool) bool {
	n := normalizeParamName(name)
	switch {
	case strings.Contains(n, "kbpotential"):
		fields.KBPotential = value
	case strings.Contains(n, "articlelinked"):
		fields.ArticleLinked = value
	case strings.Contains(n, "articleimproved"):
		fields.ArticleImproved = value
	case strings.Contains(n, "improvementopportunity"):
		fields.ImprovementOpportunity = value
	case strings.Contains(n, "articlecreated"):
		fields.ArticleCreated = value
	case strings.Contains(n, "createopportunity"):
		fields.CreateOpportunity = value
	case strings.Contains(n, "relevantlink"):
		fields.RelevantLink = value
	default:
		return false
	}
	return true
}
