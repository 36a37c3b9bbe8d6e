package reminder

import (
	"bytes"
	"fmt"
	"text/template"
)

// Renderer renders small text templates for outbound reminders.
type Renderer struct{}

// Render compiles the provided template text with strict missing-key semantics.
func (Renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("reminder: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("reminder: parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("reminder: execute template: %w", err)
	}
	return buf.String(), nil
}

var emailSubjects = map[Kind]string{
	KindFirst:  "Appointment Reminder - {{.Date}} with {{.Doctor}}",
	KindSecond: "Intake Form Reminder - {{.Date}} with {{.Doctor}}",
	KindThird:  "Confirmation Request - {{.Date}} with {{.Doctor}}",
}

var emailBodies = map[Kind]string{
	KindFirst: `Dear {{.PatientName}},

This is a friendly reminder about your upcoming appointment:

  Doctor:   {{.Doctor}}
  Date:     {{.Date}}
  Time:     {{.Time}}
  Duration: {{.Duration}} minutes

Please arrive 15 minutes early for check-in. If you need to reschedule,
please contact us at least 24 hours in advance.`,
	KindSecond: `Dear {{.PatientName}},

Your appointment with {{.Doctor}} is scheduled for {{.Date}} at {{.Time}}.

Have you completed and submitted your intake form? If not, please do so as
soon as possible so we can prepare for your visit.`,
	KindThird: `Dear {{.PatientName}},

Your appointment with {{.Doctor}} is scheduled for {{.Date}} at {{.Time}}.

Will you be attending? If you need to cancel or reschedule, please reply
with your reason. If we don't hear from you, we'll assume you're attending.`,
}

var smsBodies = map[Kind]string{
	KindFirst:  "Hi {{.PatientName}}! Reminder: appointment with {{.Doctor}} on {{.Date}} at {{.Time}}. Please arrive 15 min early. Reply STOP to opt out.",
	KindSecond: "Hi {{.PatientName}}! Quick check: have you filled out your intake form for your {{.Date}} appointment with {{.Doctor}}? Reply YES/NO.",
	KindThird:  "Hi {{.PatientName}}! Final confirmation: will you attend your {{.Date}} appointment with {{.Doctor}}? Reply YES/NO or CANCEL with reason.",
}

// RenderEmail produces the subject and body for one reminder.
func RenderEmail(r Reminder) (subject, body string, err error) {
	var renderer Renderer
	subject, err = renderer.Render("subject", emailSubjects[r.Kind], r)
	if err != nil {
		return "", "", err
	}
	body, err = renderer.Render("body", emailBodies[r.Kind], r)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

// RenderSMS produces the text-message body for one reminder.
func RenderSMS(r Reminder) (string, error) {
	var renderer Renderer
	return renderer.Render("sms", smsBodies[r.Kind], r)
}
