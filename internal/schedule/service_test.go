package schedule

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

var testDay = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*Service, *Store) {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "schedules.xlsx"), logging.NewWithWriter("error", os.Stderr))
	require.NoError(t, err)

	day := testDay.Format(DateLayout)
	next := testDay.AddDate(0, 0, 1).Format(DateLayout)
	store.Replace([]Slot{
		{Doctor: "Dr. Kevin Harris", Date: day, Time: "09:00", Available: true},
		{Doctor: "Dr. Kevin Harris", Date: day, Time: "09:30", Available: true},
		{Doctor: "Dr. Kevin Harris", Date: day, Time: "10:00", Available: false},
		{Doctor: "Dr. Kevin Harris", Date: next, Time: "09:00", Available: true},
		{Doctor: "Dr. Maria Lopez", Date: day, Time: "09:00", Available: true},
	})

	svc := NewService(store, 30, 30)
	svc.SetClock(func() time.Time { return testDay })
	return svc, store
}

func TestDoctors(t *testing.T) {
	svc, _ := testService(t)
	require.Equal(t, []string{"Dr. Kevin Harris", "Dr. Maria Lopez"}, svc.Doctors())
}

func TestAvailableSlotsOrderedAndFiltered(t *testing.T) {
	svc, _ := testService(t)

	open := svc.AvailableSlots("Dr. Kevin Harris")
	require.Len(t, open, 3)
	require.Equal(t, "09:00", open[0].Time)
	require.Equal(t, "09:30", open[1].Time)
	require.Equal(t, testDay.AddDate(0, 0, 1).Format(DateLayout), open[2].Date)
}

func TestAvailableSlotsRespectsWindow(t *testing.T) {
	svc, store := testService(t)
	far := testDay.AddDate(0, 0, 45).Format(DateLayout)
	store.Replace(append(store.Slots(), Slot{Doctor: "Dr. Maria Lopez", Date: far, Time: "11:00", Available: true}))

	open := svc.AvailableSlots("Dr. Maria Lopez")
	require.Len(t, open, 1)
	require.NotEqual(t, far, open[0].Date)
}

func TestBookFlipsSlotOnce(t *testing.T) {
	svc, _ := testService(t)
	day := testDay.Format(DateLayout)

	require.NoError(t, svc.Book("Dr. Maria Lopez", day, "09:00", 30))
	require.Empty(t, svc.AvailableSlots("Dr. Maria Lopez"))

	err := svc.Book("Dr. Maria Lopez", day, "09:00", 30)
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookSixtyMinutesReservesTwoSlots(t *testing.T) {
	svc, _ := testService(t)
	day := testDay.Format(DateLayout)

	require.NoError(t, svc.Book("Dr. Kevin Harris", day, "09:00", 60))

	open := svc.AvailableSlots("Dr. Kevin Harris")
	for _, slot := range open {
		if slot.Date == day && (slot.Time == "09:00" || slot.Time == "09:30") {
			t.Fatalf("slot %s still available after 60-minute booking", slot.Time)
		}
	}
}

func TestBookSixtyMinutesRejectedWithoutConsecutiveSlot(t *testing.T) {
	svc, store := testService(t)
	day := testDay.Format(DateLayout)

	// 09:30 books fine for 30 minutes but 10:00 is taken, so 60 minutes
	// starting at 09:30 must be rejected and 09:30 left untouched.
	err := svc.Book("Dr. Kevin Harris", day, "09:30", 60)
	require.ErrorIs(t, err, ErrNoConsecutiveSlot)

	for _, slot := range store.Slots() {
		if slot.Doctor == "Dr. Kevin Harris" && slot.Date == day && slot.Time == "09:30" {
			require.True(t, slot.Available, "failed multi-slot booking must not flip anything")
		}
	}
}

func TestBookUnknownSlot(t *testing.T) {
	svc, _ := testService(t)
	err := svc.Book("Dr. Kevin Harris", testDay.Format(DateLayout), "23:00", 30)
	require.ErrorIs(t, err, ErrSlotNotFound)

	err = svc.Book("Dr. Nobody", testDay.Format(DateLayout), "09:00", 30)
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestStoreReloadKeepsBookings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedules.xlsx")
	store, err := NewStore(path, logging.NewWithWriter("error", os.Stderr))
	require.NoError(t, err)

	day := testDay.Format(DateLayout)
	store.Replace([]Slot{{Doctor: "Dr. A", Date: day, Time: "09:00", Available: true}})
	require.True(t, store.SetAvailability("Dr. A", day, "09:00", false))

	reloaded, err := NewStore(path, logging.NewWithWriter("error", os.Stderr))
	require.NoError(t, err)
	slots := reloaded.Slots()
	require.Len(t, slots, 1)
	require.False(t, slots[0].Available)
}

func TestConsecutiveTimes(t *testing.T) {
	svc := NewService(nil, 30, 30)
	times, err := svc.consecutiveTimes("09:00", 60)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "09:30"}, times)

	times, err = svc.consecutiveTimes("09:00", 30)
	require.NoError(t, err)
	require.Equal(t, []string{"09:00"}, times)

	_, err = svc.consecutiveTimes("9 o'clock", 30)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSlotNotFound))
}
