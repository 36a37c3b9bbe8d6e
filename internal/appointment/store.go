package appointment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// SheetName is the worksheet holding appointment rows.
const SheetName = "Appointments"

var columns = []string{
	"AppointmentID", "PatientID", "PatientName", "DOB", "Phone", "Email",
	"Doctor", "Date", "Time", "Duration", "PatientType",
	"InsuranceCarrier", "MemberID", "GroupNumber", "Status", "CreatedAt",
}

// Store appends confirmed appointments to an XLSX workbook. Writes that fail
// on the primary path fall back to an alternate filename.
type Store struct {
	path   string
	logger *logging.Logger

	mu    sync.Mutex
	appts []Appointment
}

// NewStore loads the appointment workbook at path, starting empty when it
// does not exist.
func NewStore(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{path: path, logger: logger}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("appointment: stat %s: %w", s.path, err)
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("appointment: open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("appointment: read %s: %w", s.path, err)
	}
	for i, row := range rows {
		if i == 0 || len(row) < len(columns) {
			continue
		}
		patientID, _ := strconv.Atoi(row[1])
		duration, _ := strconv.Atoi(row[9])
		s.appts = append(s.appts, Appointment{
			ID:          row[0],
			PatientID:   patientID,
			PatientName: row[2],
			DOB:         row[3],
			Phone:       row[4],
			Email:       row[5],
			Doctor:      row[6],
			Date:        row[7],
			Time:        row[8],
			Duration:    duration,
			PatientType: patient.Type(row[10]),
			Insurance:   patient.Insurance{Carrier: row[11], MemberID: row[12], GroupNumber: row[13]},
			Status:      row[14],
			CreatedAt:   row[15],
		})
	}
	return nil
}

// Reload re-reads the workbook, replacing the in-memory rows. The standalone
// reminder worker uses this to pick up appointments booked by the API process.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appts = nil
	return s.load()
}

// Append stores a new appointment row, assigning an ID and timestamps when
// missing, and returns the stored record.
func (s *Store) Append(a Appointment) Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = StatusConfirmed
	}
	if a.CreatedAt == "" {
		a.CreatedAt = time.Now().Format("2006-01-02 15:04:05")
	}
	s.appts = append(s.appts, a)
	s.save()
	return a
}

// All returns a copy of every stored appointment.
func (s *Store) All() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Appointment, len(s.appts))
	copy(out, s.appts)
	return out
}

// UpdateStatus rewrites one appointment's status. It reports whether the
// appointment exists.
func (s *Store) UpdateStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appts {
		if s.appts[i].ID == id {
			s.appts[i].Status = status
			s.save()
			return true
		}
	}
	return false
}

func (s *Store) save() {
	if err := s.writeTo(s.path); err != nil {
		alt := alternatePath(s.path)
		s.logger.Warn("appointment store write failed, using fallback file", "path", s.path, "fallback", alt, "error", err)
		if err := s.writeTo(alt); err != nil {
			s.logger.Error("appointment store fallback write failed", "path", alt, "error", err)
		}
	}
}

func (s *Store) writeTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &columns); err != nil {
		return err
	}
	for i, a := range s.appts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			a.ID, a.PatientID, a.PatientName, a.DOB, a.Phone, a.Email,
			a.Doctor, a.Date, a.Time, a.Duration, string(a.PatientType),
			a.Insurance.Carrier, a.Insurance.MemberID, a.Insurance.GroupNumber,
			a.Status, a.CreatedAt,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func alternatePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_new" + ext
}
