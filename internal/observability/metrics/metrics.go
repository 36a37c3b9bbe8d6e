package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters for the chat flow.
type ConversationMetrics struct {
	messagesTotal *prometheus.CounterVec
	bookingsTotal *prometheus.CounterVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "messages_total",
			Help:      "Messages processed by conversation state",
		}, []string{"state", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "conversation",
			Name:      "bookings_total",
			Help:      "Confirmed bookings by patient type",
		}, []string{"patient_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.bookingsTotal)
	return m
}

func (m *ConversationMetrics) ObserveMessage(state, outcome string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(state, outcome).Inc()
}

func (m *ConversationMetrics) ObserveBooking(patientType string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(patientType).Inc()
}

// ReminderMetrics exposes counters for reminder dispatch.
type ReminderMetrics struct {
	dispatchTotal *prometheus.CounterVec
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "reminder",
			Name:      "dispatch_total",
			Help:      "Reminder dispatch attempts by kind, channel and status",
		}, []string{"kind", "channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal)
	return m
}

func (m *ReminderMetrics) ObserveDispatch(kind, channel, status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(kind, channel, status).Inc()
}
