package extract

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailExact = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneExact = regexp.MustCompile(`^(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}$`)
)

// dobLayouts are the date-of-birth formats accepted on input. MM/DD/YYYY is
// canonical; ISO dates are tolerated.
var dobLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02"}

// ValidEmail reports whether s looks like a deliverable email address.
func ValidEmail(s string) bool {
	return emailExact.MatchString(strings.TrimSpace(s))
}

// ValidPhone reports whether s looks like a US phone number.
func ValidPhone(s string) bool {
	return phoneExact.MatchString(strings.TrimSpace(s))
}

// ValidDOB reports whether s parses as a calendar date in an accepted layout.
func ValidDOB(s string) bool {
	_, err := ParseDOB(s)
	return err == nil
}

// ParseDOB parses a date of birth, trying each accepted layout in order.
func ParseDOB(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// CanonicalDOB normalizes a valid date of birth to MM/DD/YYYY. Invalid input
// is returned unchanged.
func CanonicalDOB(s string) string {
	t, err := ParseDOB(s)
	if err != nil {
		return s
	}
	return t.Format("01/02/2006")
}

// FormatPhone normalizes a phone number to (XXX) XXX-XXXX when it carries ten
// digits (optionally with a leading 1). Anything else is returned unchanged.
func FormatPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return s
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
