package patient

import (
	"github.com/clinicdesk/scheduling-assistant/internal/extract"
	"github.com/clinicdesk/scheduling-assistant/internal/fuzzy"
)

// Matcher classifies callers as new or returning by fuzzy first-name
// similarity combined with an exact date-of-birth match.
type Matcher struct {
	store     *Store
	threshold int
}

// NewMatcher creates a matcher over the given store. Threshold is the minimum
// name-similarity score (0..100) to accept a match; values outside the range
// fall back to 80.
func NewMatcher(store *Store, threshold int) *Matcher {
	if threshold <= 0 || threshold > 100 {
		threshold = 80
	}
	return &Matcher{store: store, threshold: threshold}
}

// Match looks up a patient by first name and DOB. It returns the best-scoring
// candidate at or above the threshold; among equal scores the lowest patient
// ID wins. found is false when the caller should be treated as new.
func (m *Matcher) Match(firstName, dob string) (best Patient, score int, found bool) {
	dob = extract.CanonicalDOB(dob)
	for _, candidate := range m.store.All() {
		if extract.CanonicalDOB(candidate.DOB) != dob {
			continue
		}
		s := fuzzy.Ratio(firstName, candidate.FirstName)
		if s < m.threshold {
			continue
		}
		if !found || s > score || (s == score && candidate.ID < best.ID) {
			best, score, found = candidate, s, true
		}
	}
	return best, score, found
}
