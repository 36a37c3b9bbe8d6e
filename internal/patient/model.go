package patient

// Type classifies a patient for intake and appointment-duration rules.
type Type string

const (
	TypeNew       Type = "New"
	TypeReturning Type = "Returning"
)

// Insurance is the coverage snapshot collected during booking.
type Insurance struct {
	Carrier     string
	MemberID    string
	GroupNumber string
}

// Patient is one row of the patient store. Records are appended or updated,
// never deleted.
type Patient struct {
	ID           int
	FirstName    string
	LastName     string
	DOB          string // MM/DD/YYYY
	Phone        string
	Email        string
	Type         Type
	Insurance    Insurance
	RegisteredAt string // YYYY-MM-DD
}

// FullName joins first and last name, tolerating a missing last name.
func (p Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
