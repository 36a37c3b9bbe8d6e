package extract

import (
	"context"
	"regexp"
	"strings"
)

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is ([a-z]+)`),
		regexp.MustCompile(`(?i)\bi'?m ([a-z]+)`),
		regexp.MustCompile(`(?i)\bi am ([a-z]+)`),
		regexp.MustCompile(`(?i)call me ([a-z]+)`),
		regexp.MustCompile(`(?i)name:\s*([a-z]+)`),
	}

	dobPattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	phonePattern = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)

	doctorPattern = regexp.MustCompile(`(?i)(?:dr\.?|doctor|physician|specialist)\s+([a-zA-Z][a-zA-Z .']*)`)
)

// RuleExtractor extracts entities with regular expressions and keyword
// matching. It never errors; unmatched fields stay empty and the caller
// re-prompts.
type RuleExtractor struct{}

// NewRuleExtractor creates a pattern-based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

var _ Extractor = (*RuleExtractor)(nil)

// Extract pulls name, DOB, email, phone and doctor-preference candidates out
// of the text. A bare single-word alphabetic reply counts as a first name
// when a name is expected.
func (x *RuleExtractor) Extract(_ context.Context, text string, hint Hint) Entities {
	var ents Entities
	trimmed := strings.TrimSpace(text)

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(trimmed); len(m) == 2 {
			ents.FirstName = titleCase(m[1])
			break
		}
	}
	if ents.FirstName == "" && hint == HintName && isBareWord(trimmed) {
		ents.FirstName = titleCase(trimmed)
	}

	if m := dobPattern.FindString(trimmed); m != "" {
		ents.DOB = m
	}
	if m := emailPattern.FindString(trimmed); m != "" {
		ents.Email = strings.ToLower(m)
	}
	if m := phonePattern.FindString(trimmed); m != "" {
		ents.Phone = m
	}
	if m := doctorPattern.FindStringSubmatch(trimmed); len(m) == 2 {
		ents.Doctor = strings.TrimSpace(m[1])
	} else if hint == HintDoctor {
		ents.Doctor = trimmed
	}

	return ents
}

func isBareWord(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
