package reminder

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Scheduler holds pending reminders in memory. Reminders live only as long as
// the process; a restart rebuilds them from the appointment store via Rebuild.
type Scheduler struct {
	logger *logging.Logger

	mu      sync.Mutex
	pending map[string]Reminder
	done    map[string]struct{}
}

// NewScheduler creates an empty reminder scheduler.
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		logger:  logger,
		pending: make(map[string]Reminder),
		done:    make(map[string]struct{}),
	}
}

// Schedule computes the three reminders for a confirmed appointment and
// queues them. Reminders already queued or already dispatched for the same
// appointment and kind are left alone, so re-scheduling is idempotent.
func (s *Scheduler) Schedule(a appointment.Appointment) ([]Reminder, error) {
	at, err := AppointmentTime(a)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var queued []Reminder
	for _, trig := range Triggers(at) {
		key := fmt.Sprintf("%s:%s", a.ID, trig.Kind)
		if _, ok := s.pending[key]; ok {
			continue
		}
		if _, ok := s.done[key]; ok {
			continue
		}
		r := Reminder{
			Key:           key,
			AppointmentID: a.ID,
			Kind:          trig.Kind,
			DueAt:         trig.At,
			PatientName:   a.PatientName,
			Email:         a.Email,
			Phone:         a.Phone,
			Doctor:        a.Doctor,
			Date:          a.Date,
			Time:          a.Time,
			Duration:      a.Duration,
		}
		s.pending[key] = r
		queued = append(queued, r)
	}

	s.logger.Info("reminders scheduled",
		"appointment_id", a.ID,
		"patient", a.PatientName,
		"count", len(queued),
	)
	return queued, nil
}

// Rebuild queues reminders for every appointment in the store whose time is
// still ahead. Fully-reminded appointments are skipped. Safe to call on every
// poll tick; dispatched reminders are never re-queued.
func (s *Scheduler) Rebuild(appts []appointment.Appointment, now time.Time) {
	for _, a := range appts {
		if a.Status == appointment.StatusReminded {
			continue
		}
		at, err := AppointmentTime(a)
		if err != nil || !at.After(now) {
			continue
		}
		if _, err := s.Schedule(a); err != nil {
			s.logger.Warn("skipping appointment during rebuild", "appointment_id", a.ID, "error", err)
		}
	}
}

// Due returns reminders whose trigger time has passed, in due order.
func (s *Scheduler) Due(now time.Time) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []Reminder
	for _, r := range s.pending {
		if !r.DueAt.After(now) {
			due = append(due, r)
		}
	}
	sortByDue(due)
	return due
}

// MarkDone removes a reminder from the queue after a dispatch attempt,
// successful or not, so it is never retried into a duplicate send.
func (s *Scheduler) MarkDone(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
	s.done[key] = struct{}{}
}

// PendingCount reports queued reminders.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func sortByDue(rs []Reminder) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].DueAt.Before(rs[j].DueAt) })
}
