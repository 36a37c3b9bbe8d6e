package extract

import "context"

// Hint biases extraction toward the fields the conversation currently expects.
type Hint int

const (
	HintNone Hint = iota
	// HintName treats a bare single-word reply as a first name.
	HintName
	// HintDOB expects a date of birth.
	HintDOB
	// HintContact expects an email address or phone number.
	HintContact
	// HintDoctor treats the reply as a doctor preference.
	HintDoctor
)

// Entities is the structured field set pulled out of a free-form message.
// Absent fields are empty strings; there is no confidence score beyond
// pattern-match success.
type Entities struct {
	FirstName string `json:"first_name,omitempty"`
	DOB       string `json:"dob,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Doctor    string `json:"doctor,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (e Entities) IsEmpty() bool {
	return e == Entities{}
}

// Extractor turns free text into entity candidates. Implementations must not
// fail the conversation: when nothing matches they return an empty set.
type Extractor interface {
	Extract(ctx context.Context, text string, hint Hint) Entities
}
