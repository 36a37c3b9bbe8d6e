package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// SheetName is the worksheet holding the slot grid.
const SheetName = "Schedules"

var columns = []string{"Doctor", "Date", "Time", "Available"}

// Store persists the doctor slot grid in an XLSX workbook. Loading prefers
// the fallback file when a previous save could not touch the primary path;
// saving retries the fallback the same way. Concurrent processes race on the
// file, last writer wins.
type Store struct {
	path   string
	logger *logging.Logger

	mu    sync.Mutex
	slots []Slot
}

// NewStore loads the schedule workbook at path, starting empty when neither
// the primary nor the fallback file exists.
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
	for _, candidate := range []string{alternatePath(s.path), s.path} {
		slots, err := readWorkbook(candidate)
		if err == nil {
			s.slots = slots
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("schedule: load %s: %w", candidate, err)
		}
	}
	s.slots = nil
	return nil
}

func readWorkbook(path string) ([]Slot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}
		slots = append(slots, Slot{
			Doctor:    row[0],
			Date:      row[1],
			Time:      row[2],
			Available: strings.EqualFold(row[3], "Yes"),
		})
	}
	return slots, nil
}

// Slots returns a copy of every slot row in sheet order.
func (s *Store) Slots() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Replace swaps the whole grid and saves. The seeder uses this.
func (s *Store) Replace(slots []Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
	s.save()
}

// SetAvailability flips one slot's flag and saves. It reports whether the
// slot exists.
func (s *Store) SetAvailability(doctor, date, timeOfDay string, available bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, slot := range s.slots {
		if slot.Doctor == doctor && slot.Date == date && slot.Time == timeOfDay {
			s.slots[i].Available = available
			s.save()
			return true
		}
	}
	return false
}

// setAvailabilityBatch flips several slots in one save. Callers hold no lock.
func (s *Store) setAvailabilityBatch(doctor, date string, times []string, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, slot := range s.slots {
		if slot.Doctor != doctor || slot.Date != date {
			continue
		}
		for _, tm := range times {
			if slot.Time == tm {
				s.slots[i].Available = available
			}
		}
	}
	s.save()
}

func (s *Store) save() {
	if err := s.writeTo(s.path); err != nil {
		alt := alternatePath(s.path)
		s.logger.Warn("schedule store write failed, using fallback file", "path", s.path, "fallback", alt, "error", err)
		if err := s.writeTo(alt); err != nil {
			s.logger.Error("schedule store fallback write failed", "path", alt, "error", err)
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
	for i, slot := range s.slots {
		avail := "No"
		if slot.Available {
			avail = "Yes"
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{slot.Doctor, slot.Date, slot.Time, avail}
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
