package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/scheduling-assistant/internal/appointment"
	"github.com/clinicdesk/scheduling-assistant/internal/conversation"
	"github.com/clinicdesk/scheduling-assistant/internal/extract"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
	"github.com/clinicdesk/scheduling-assistant/internal/session"
	"github.com/clinicdesk/scheduling-assistant/internal/webchat"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.NewWithWriter("error", os.Stderr)
	dir := t.TempDir()

	patients, err := patient.NewStore(filepath.Join(dir, "patients.csv"), logger)
	require.NoError(t, err)
	schedules, err := schedule.NewStore(filepath.Join(dir, "schedules.xlsx"), logger)
	require.NoError(t, err)
	appts, err := appointment.NewStore(filepath.Join(dir, "appointments.xlsx"), logger)
	require.NoError(t, err)

	engine := conversation.NewEngine(conversation.Deps{
		Extractor: extract.NewRuleExtractor(),
		Patients:  patients,
		Matcher:   patient.NewMatcher(patients, 80),
		Schedule:  schedule.NewService(schedules, 30, 30),
		Appts:     appts,
		Logger:    logger,
	})
	chat := webchat.NewHandler(engine, session.NewMemoryStore(time.Minute), logger)

	reg := prometheus.NewRegistry()
	return New(&Config{
		Logger:         logger,
		Webchat:        chat,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChatMessageRoute(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{"text": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/chat/message", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out webchat.OutboundMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.SessionID)
	require.Contains(t, out.Text, "first name")
}

func TestUnknownRouteIs404(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
