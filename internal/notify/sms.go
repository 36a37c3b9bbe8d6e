package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

var twilioTracer = otel.Tracer("clinicdesk.internal.notify.twilio")

// SMSMessage represents a text message to be sent.
type SMSMessage struct {
	To   string
	Body string
}

// SMSSender defines the interface for sending text messages.
type SMSSender interface {
	Send(ctx context.Context, msg SMSMessage) error
}

// TwilioSender posts SMS messages using Twilio's REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewTwilioSender builds a sender with sane defaults.
func NewTwilioSender(accountSID, authToken, from string, logger *logging.Logger) *TwilioSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

var _ SMSSender = (*TwilioSender)(nil)

// Send dispatches a single SMS, retrying transient failures.
func (s *TwilioSender) Send(ctx context.Context, msg SMSMessage) error {
	if s.accountSID == "" || s.authToken == "" {
		return errors.New("notify: twilio credentials missing")
	}
	if msg.To == "" {
		return errors.New("notify: sms recipient required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return errors.New("notify: sms body required")
	}

	ctx, span := twilioTracer.Start(ctx, "notify.twilio.send")
	defer span.End()
	span.SetAttributes(attribute.String("clinicdesk.sms.to", msg.To))

	payload := url.Values{}
	payload.Set("To", msg.To)
	payload.Set("From", s.from)
	payload.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
		if err != nil {
			return fmt.Errorf("notify: build twilio request: %w", err)
		}
		req.SetBasicAuth(s.accountSID, s.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode < 300 {
				s.logger.Info("sms sent", "to", msg.To, "status", resp.StatusCode)
				return nil
			}
			lastErr = twilioError(resp.StatusCode, body)
			// Client errors other than rate limiting will not improve on retry.
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				break
			}
		}

		backoff := time.Duration(attempt) * 500 * time.Millisecond
		backoff += time.Duration(rand.Intn(250)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	s.logger.Error("sms send failed", "to", msg.To, "error", lastErr)
	return fmt.Errorf("notify: twilio send failed: %w", lastErr)
}

func twilioError(status int, body []byte) error {
	var parsed struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("twilio status %d code %d: %s", status, parsed.Code, parsed.Message)
	}
	return fmt.Errorf("twilio status %d", status)
}

// SimulatedSMSSender logs sends instead of transmitting them. It is the
// default when no Twilio credentials are configured.
type SimulatedSMSSender struct {
	logger *logging.Logger
}

// NewSimulatedSMSSender creates a log-only SMS sender.
func NewSimulatedSMSSender(logger *logging.Logger) *SimulatedSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SimulatedSMSSender{logger: logger}
}

var _ SMSSender = (*SimulatedSMSSender)(nil)

// Send logs the message but doesn't actually send it.
func (s *SimulatedSMSSender) Send(ctx context.Context, msg SMSMessage) error {
	s.logger.Info("simulated sms send", "to", msg.To, "body", msg.Body)
	return nil
}
