package usecase

import (
	"regexp"
	"strings"

	"github.com/groceryai/backend/internal/domain"
)

// datePattern is one family of expiry date matchers
type datePattern struct {
	family domain.DateFamily
	regex  *regexp.Regexp
}

// match returns the first match of the pattern in document order.
// Several capture groups are joined with a single space; a single group is returned verbatim.
func (p datePattern) match(text string) (string, bool) {
	groups := p.regex.FindStringSubmatch(text)
	if groups == nil {
		return "", false
	}
	captures := groups[1:]
	if len(captures) == 1 {
		return captures[0], true
	}
	return strings.Join(captures, " "), true
}

// datePatterns are tried in this order; the first family with a match wins
var datePatterns = []datePattern{
	{
		family: domain.DateFamilyDayMonthYear,
		regex:  regexp.MustCompile(`(?i)\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`),
	},
	{
		family: domain.DateFamilyYearFirst,
		regex:  regexp.MustCompile(`(?i)\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`),
	},
	{
		family: domain.DateFamilyMonthName,
		regex:  regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}\b`),
	},
	{
		family: domain.DateFamilyLabel,
		regex:  regexp.MustCompile(`(?i)\b(BEST BEFORE|EXP|EXPIRY|USE BY)[:\s]*([^\n]+)`),
	},
}

// DateTextExtractor finds expiry-date-like substrings in OCR or label text
type DateTextExtractor struct {
	patterns []datePattern
}

// NewDateTextExtractor creates an extractor with the standard pattern families
func NewDateTextExtractor() *DateTextExtractor {
	return &DateTextExtractor{patterns: datePatterns}
}

// Match returns the first date found together with the family that produced it
func (e *DateTextExtractor) Match(text string) (domain.DateMatch, bool) {
	for _, p := range e.patterns {
		if value, ok := p.match(text); ok {
			return domain.DateMatch{Value: value, Family: p.family}, true
		}
	}
	return domain.DateMatch{}, false
}

// Extract returns the first date-like string in text, or false when none is present
func (e *DateTextExtractor) Extract(text string) (string, bool) {
	m, ok := e.Match(text)
	return m.Value, ok
}
