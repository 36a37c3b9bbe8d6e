package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrSlotNotFound means the requested doctor/date/time is not on the grid.
	ErrSlotNotFound = errors.New("schedule: slot not found")
	// ErrSlotUnavailable means the slot was already booked.
	ErrSlotUnavailable = errors.New("schedule: slot unavailable")
	// ErrNoConsecutiveSlot means a multi-slot booking could not reserve the
	// follow-on slot it needs.
	ErrNoConsecutiveSlot = errors.New("schedule: consecutive slot unavailable")
)

// Service answers availability queries and books slots against the store.
type Service struct {
	store       *Store
	slotMinutes int
	windowDays  int
	now         func() time.Time
}

// NewService wraps a store with the clinic's slot rules. slotMinutes is the
// grid unit (30), windowDays the rolling booking window (30).
func NewService(store *Store, slotMinutes, windowDays int) *Service {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Service{
		store:       store,
		slotMinutes: slotMinutes,
		windowDays:  windowDays,
		now:         time.Now,
	}
}

// SetClock overrides the service clock. Tests use this to pin the rolling
// window.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Doctors lists the doctors on the grid in first-seen order.
func (s *Service) Doctors() []string {
	seen := make(map[string]struct{})
	var doctors []string
	for _, slot := range s.store.Slots() {
		if _, ok := seen[slot.Doctor]; ok {
			continue
		}
		seen[slot.Doctor] = struct{}{}
		doctors = append(doctors, slot.Doctor)
	}
	return doctors
}

// AvailableSlots returns the doctor's open slots inside the rolling window,
// ordered by date then time.
func (s *Service) AvailableSlots(doctor string) []Slot {
	today := s.now().Format(DateLayout)
	horizon := s.now().AddDate(0, 0, s.windowDays).Format(DateLayout)

	var open []Slot
	for _, slot := range s.store.Slots() {
		if slot.Doctor != doctor || !slot.Available {
			continue
		}
		if slot.Date < today || slot.Date >= horizon {
			continue
		}
		open = append(open, slot)
	}
	sort.Slice(open, func(i, j int) bool {
		if open[i].Date != open[j].Date {
			return open[i].Date < open[j].Date
		}
		return open[i].Time < open[j].Time
	})
	return open
}

// Book reserves the slot at doctor/date/time for durationMinutes. A booking
// longer than one grid unit reserves that many consecutive slots on the same
// day; if any of them is missing or taken the whole booking is rejected and
// nothing is flipped.
func (s *Service) Book(doctor, date, timeOfDay string, durationMinutes int) error {
	times, err := s.consecutiveTimes(timeOfDay, durationMinutes)
	if err != nil {
		return err
	}

	slots := s.store.Slots()
	index := make(map[string]Slot, len(slots))
	for _, slot := range slots {
		if slot.Doctor == doctor && slot.Date == date {
			index[slot.Time] = slot
		}
	}

	for i, tm := range times {
		slot, ok := index[tm]
		if !ok {
			if i == 0 {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: %s %s %s", ErrNoConsecutiveSlot, doctor, date, tm)
		}
		if !slot.Available {
			if i == 0 {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("%w: %s %s %s", ErrNoConsecutiveSlot, doctor, date, tm)
		}
	}

	s.store.setAvailabilityBatch(doctor, date, times, false)
	return nil
}

// consecutiveTimes expands a start time into the grid times the booking
// occupies.
func (s *Service) consecutiveTimes(start string, durationMinutes int) ([]string, error) {
	t, err := time.Parse(TimeLayout, start)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad time %q: %w", start, err)
	}
	n := durationMinutes / s.slotMinutes
	if n < 1 {
		n = 1
	}
	times := make([]string, 0, n)
	for i := 0; i < n; i++ {
		times = append(times, t.Add(time.Duration(i*s.slotMinutes)*time.Minute).Format(TimeLayout))
	}
	return times, nil
}
