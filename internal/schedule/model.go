package schedule

// DateLayout and TimeLayout are the cell formats used in the schedule
// workbook.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Slot is one fixed-length calendar unit for a doctor on a given day.
type Slot struct {
	Doctor    string
	Date      string // DateLayout
	Time      string // TimeLayout
	Available bool
}
