package patient

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

var header = []string{
	"PatientID", "FirstName", "LastName", "DOB", "Phone", "Email",
	"PatientType", "InsuranceCarrier", "MemberID", "GroupNumber", "RegisteredAt",
}

// Store persists patients in a CSV file. The whole file is read on load and
// rewritten on save; concurrent processes race on the file (last writer wins)
// and a failed write falls back to an alternate filename instead of failing
// the caller.
type Store struct {
	path   string
	logger *logging.Logger

	mu       sync.Mutex
	patients []Patient
}

// NewStore loads the patient CSV at path, starting empty when the file does
// not exist yet.
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
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.patients = nil
			return nil
		}
		return fmt.Errorf("patient: open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("patient: read %s: %w", s.path, err)
	}

	var patients []Patient
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == header[0] {
			continue
		}
		if len(row) < 7 {
			continue
		}
		id, _ := strconv.Atoi(row[0])
		p := Patient{
			ID:        id,
			FirstName: row[1],
			LastName:  row[2],
			DOB:       row[3],
			Phone:     row[4],
			Email:     row[5],
			Type:      Type(row[6]),
		}
		if len(row) >= 10 {
			p.Insurance = Insurance{Carrier: row[7], MemberID: row[8], GroupNumber: row[9]}
		}
		if len(row) >= 11 {
			p.RegisteredAt = row[10]
		}
		patients = append(patients, p)
	}
	s.patients = patients
	return nil
}

// All returns a copy of every stored patient.
func (s *Store) All() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

// Get returns the patient with the given ID.
func (s *Store) Get(id int) (Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// Register appends a new patient, assigning the next sequential ID, and
// saves the file.
func (s *Store) Register(p Patient) (Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	for _, existing := range s.patients {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	p.ID = next
	if p.Type == "" {
		p.Type = TypeNew
	}
	if p.RegisteredAt == "" {
		p.RegisteredAt = time.Now().Format("2006-01-02")
	}
	s.patients = append(s.patients, p)
	s.save()
	return p, nil
}

// Update replaces the stored record with the same ID and saves the file.
func (s *Store) Update(p Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.patients {
		if existing.ID == p.ID {
			s.patients[i] = p
			s.save()
			return nil
		}
	}
	return fmt.Errorf("patient: id %d not found", p.ID)
}

// save writes the CSV, retrying an alternate filename when the primary path
// cannot be written (a spreadsheet viewer holding the file open, typically).
func (s *Store) save() {
	if err := s.writeTo(s.path); err != nil {
		alt := alternatePath(s.path)
		s.logger.Warn("patient store write failed, using fallback file", "path", s.path, "fallback", alt, "error", err)
		if err := s.writeTo(alt); err != nil {
			s.logger.Error("patient store fallback write failed", "path", alt, "error", err)
		}
	}
}

func (s *Store) writeTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range s.patients {
		row := []string{
			strconv.Itoa(p.ID), p.FirstName, p.LastName, p.DOB, p.Phone, p.Email,
			string(p.Type), p.Insurance.Carrier, p.Insurance.MemberID, p.Insurance.GroupNumber,
			p.RegisteredAt,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func alternatePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_new" + ext
}
