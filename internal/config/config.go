package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// File-backed stores
	DataDir          string
	PatientsFile     string
	SchedulesFile    string
	AppointmentsFile string

	// Patient matching
	MatchThreshold int

	// Scheduling rules
	BookingWindowDays       int
	SlotMinutes             int
	NewPatientMinutes       int
	ReturningPatientMinutes int

	// LLM-assisted entity extraction (optional; rule-based otherwise)
	GeminiAPIKey  string
	GeminiModelID string

	// Outbound email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SimulateEmail     bool

	// Outbound SMS
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SimulateSMS      bool

	// Reminder dispatch
	ReminderPollInterval time.Duration

	// Session storage (in-memory unless Redis is configured)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// HTTP surface
	CORSAllowedOrigins []string
	ChatRatePerSecond  float64
	ChatRateBurst      int
}

// Load reads configuration from environment variables
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataDir:          dataDir,
		PatientsFile:     getEnv("PATIENTS_FILE", filepath.Join(dataDir, "patients.csv")),
		SchedulesFile:    getEnv("SCHEDULES_FILE", filepath.Join(dataDir, "schedules.xlsx")),
		AppointmentsFile: getEnv("APPOINTMENTS_FILE", filepath.Join(dataDir, "appointments.xlsx")),

		MatchThreshold: getEnvAsInt("MATCH_THRESHOLD", 80),

		BookingWindowDays:       getEnvAsInt("BOOKING_WINDOW_DAYS", 30),
		SlotMinutes:             getEnvAsInt("SLOT_MINUTES", 30),
		NewPatientMinutes:       getEnvAsInt("NEW_PATIENT_MINUTES", 60),
		ReturningPatientMinutes: getEnvAsInt("RETURNING_PATIENT_MINUTES", 30),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ClinicDesk Scheduling"),
		SimulateEmail:     getEnvAsBool("SIMULATE_EMAIL", false),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SimulateSMS:      getEnvAsBool("SIMULATE_SMS", false),

		ReminderPollInterval: getEnvAsDuration("REMINDER_POLL_INTERVAL", time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*time.Minute),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		ChatRatePerSecond:  getEnvAsFloat("CHAT_RATE_PER_SECOND", 5),
		ChatRateBurst:      getEnvAsInt("CHAT_RATE_BURST", 10),
	}

	// Sends degrade to simulation when credentials are absent.
	if cfg.SendGridAPIKey == "" {
		cfg.SimulateEmail = true
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		cfg.SimulateSMS = true
	}

	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
