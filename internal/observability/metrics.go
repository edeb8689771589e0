package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes prometheus counters for the ticket lifecycle.
type Metrics struct {
	UpdatesHandled   prometheus.Counter
	TicketsCreated   prometheus.Counter
	RepliesForwarded prometheus.Counter
	TicketsRemoved   *prometheus.CounterVec
	RemindersSent    prometheus.Counter
	OperatorCalls    prometheus.Counter
	DeliveryErrors   prometheus.Counter
	SweepErrors      prometheus.Counter
}

// NewMetrics registers lifecycle counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpdatesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_updates_handled_total",
			Help: "Total number of inbound transport updates handled",
		}),
		TicketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_tickets_created_total",
			Help: "Total number of tickets created",
		}),
		RepliesForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_replies_forwarded_total",
			Help: "Total number of admin replies forwarded to users",
		}),
		TicketsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportbot_tickets_removed_total",
			Help: "Total number of tickets removed, by cause",
		}, []string{"cause"}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_reminders_sent_total",
			Help: "Total number of reminder escalations sent to the admin",
		}),
		OperatorCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_operator_calls_total",
			Help: "Total number of operator calls relayed to the admin",
		}),
		DeliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_delivery_errors_total",
			Help: "Total number of failed outbound notification deliveries",
		}),
		SweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_sweep_errors_total",
			Help: "Total number of failed sweep passes",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.UpdatesHandled,
			m.TicketsCreated,
			m.RepliesForwarded,
			m.TicketsRemoved,
			m.RemindersSent,
			m.OperatorCalls,
			m.DeliveryErrors,
			m.SweepErrors,
		)
	}
	return m
}

// IncRemoved counts one removed ticket with the given cause
// ("closed", "deleted" or "expired"). Nil-safe, as are the other helpers,
// so components can run without metrics in tests.
func (m *Metrics) IncRemoved(cause string) {
	if m == nil {
		return
	}
	m.TicketsRemoved.WithLabelValues(cause).Inc()
}

func (m *Metrics) IncUpdatesHandled() {
	if m == nil {
		return
	}
	m.UpdatesHandled.Inc()
}

func (m *Metrics) IncTicketsCreated() {
	if m == nil {
		return
	}
	m.TicketsCreated.Inc()
}

func (m *Metrics) IncRepliesForwarded() {
	if m == nil {
		return
	}
	m.RepliesForwarded.Inc()
}

func (m *Metrics) IncRemindersSent() {
	if m == nil {
		return
	}
	m.RemindersSent.Inc()
}

func (m *Metrics) IncOperatorCalls() {
	if m == nil {
		return
	}
	m.OperatorCalls.Inc()
}

func (m *Metrics) IncDeliveryErrors() {
	if m == nil {
		return
	}
	m.DeliveryErrors.Inc()
}

func (m *Metrics) IncSweepErrors() {
	if m == nil {
		return
	}
	m.SweepErrors.Inc()
}
