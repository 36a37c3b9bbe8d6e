package appointment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("error", os.Stderr)
}

func sample() Appointment {
	return Appointment{
		PatientID:   1,
		PatientName: "John Doe",
		DOB:         "01/15/1990",
		Phone:       "(555) 123-4567",
		Email:       "john@example.com",
		PatientType: patient.TypeReturning,
		Doctor:      "Dr. Kevin Harris",
		Date:        "2026-03-02",
		Time:        "09:00",
		Duration:    30,
		Insurance:   patient.Insurance{Carrier: "Aetna", MemberID: "ABC123456", GroupNumber: "G-77"},
	}
}

func TestAppendAssignsDefaults(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "appointments.xlsx"), testLogger())
	require.NoError(t, err)

	stored := s.Append(sample())
	require.NotEmpty(t, stored.ID)
	require.Equal(t, StatusConfirmed, stored.Status)
	require.NotEmpty(t, stored.CreatedAt)
	require.Len(t, s.All(), 1)
}

func TestAppendPersistsExactlyOneRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.xlsx")
	s, err := NewStore(path, testLogger())
	require.NoError(t, err)

	s.Append(sample())

	reloaded, err := NewStore(path, testLogger())
	require.NoError(t, err)
	all := reloaded.All()
	require.Len(t, all, 1)
	require.Equal(t, "John Doe", all[0].PatientName)
	require.Equal(t, 30, all[0].Duration)
	require.Equal(t, patient.TypeReturning, all[0].PatientType)
	require.Equal(t, "Aetna", all[0].Insurance.Carrier)
}

func TestUpdateStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.xlsx")
	s, err := NewStore(path, testLogger())
	require.NoError(t, err)

	stored := s.Append(sample())
	require.True(t, s.UpdateStatus(stored.ID, StatusReminded))
	require.False(t, s.UpdateStatus("missing", StatusReminded))

	reloaded, err := NewStore(path, testLogger())
	require.NoError(t, err)
	require.Equal(t, StatusReminded, reloaded.All()[0].Status)
}
