package notify

import (
	"context"
	"os"
	"testing"

	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

func TestTwilioSenderValidatesInput(t *testing.T) {
	logger := logging.NewWithWriter("error", os.Stderr)

	s := NewTwilioSender("", "", "+15550001111", logger)
	if err := s.Send(context.Background(), SMSMessage{To: "+15550002222", Body: "hi"}); err == nil {
		t.Error("expected error without credentials")
	}

	s = NewTwilioSender("sid", "token", "+15550001111", logger)
	if err := s.Send(context.Background(), SMSMessage{Body: "hi"}); err == nil {
		t.Error("expected error without recipient")
	}
	if err := s.Send(context.Background(), SMSMessage{To: "+15550002222", Body: "  "}); err == nil {
		t.Error("expected error without body")
	}
}

func TestSimulatedSendersNeverFail(t *testing.T) {
	logger := logging.NewWithWriter("error", os.Stderr)
	if err := NewSimulatedSMSSender(logger).Send(context.Background(), SMSMessage{To: "x", Body: "y"}); err != nil {
		t.Errorf("simulated sms: %v", err)
	}
	if err := NewSimulatedEmailSender(logger).Send(context.Background(), EmailMessage{To: "a@b.co", Subject: "s"}); err != nil {
		t.Errorf("simulated email: %v", err)
	}
}
