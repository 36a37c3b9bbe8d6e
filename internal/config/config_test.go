package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MatchThreshold != 80 {
		t.Errorf("MatchThreshold = %d, want 80", cfg.MatchThreshold)
	}
	if cfg.BookingWindowDays != 30 {
		t.Errorf("BookingWindowDays = %d, want 30", cfg.BookingWindowDays)
	}
	if cfg.SlotMinutes != 30 || cfg.NewPatientMinutes != 60 || cfg.ReturningPatientMinutes != 30 {
		t.Errorf("duration rules = %d/%d/%d, want 30/60/30",
			cfg.SlotMinutes, cfg.NewPatientMinutes, cfg.ReturningPatientMinutes)
	}
	if cfg.ReminderPollInterval != time.Minute {
		t.Errorf("ReminderPollInterval = %v, want 1m", cfg.ReminderPollInterval)
	}
}

func TestSimulationFallsBackWithoutCredentials(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("SIMULATE_EMAIL", "false")
	t.Setenv("SIMULATE_SMS", "false")

	cfg := Load()
	if !cfg.SimulateEmail {
		t.Error("SimulateEmail should be forced on without SendGrid credentials")
	}
	if !cfg.SimulateSMS {
		t.Error("SimulateSMS should be forced on without Twilio credentials")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "92")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("PATIENTS_FILE", "/tmp/patients.csv")

	cfg := Load()
	if cfg.MatchThreshold != 92 {
		t.Errorf("MatchThreshold = %d, want 92", cfg.MatchThreshold)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %v, want 5m", cfg.SessionTTL)
	}
	if cfg.PatientsFile != "/tmp/patients.csv" {
		t.Errorf("PatientsFile = %q", cfg.PatientsFile)
	}
}
