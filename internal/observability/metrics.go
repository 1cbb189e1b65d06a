package observability

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "supportdesk"

// Metrics holds the pipeline counters on a private registry.
type Metrics struct {
	registry            *prometheus.Registry
	ticketsCreated      *prometheus.CounterVec
	ticketRejections    *prometheus.CounterVec
	ticketTransitions   *prometheus.CounterVec
	notificationSends   *prometheus.CounterVec
	observerFailures    *prometheus.CounterVec
	customersRegistered prometheus.Counter
}

// NewMetrics initializes and registers the counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tickets_created_total",
			Help:      "Tickets admitted by the validation chain",
		}, []string{"priority"}),
		ticketRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticket_rejections_total",
			Help:      "Ticket creation requests refused by a validation rule",
		}, []string{"code"}),
		ticketTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticket_transitions_total",
			Help:      "Ticket status changes",
		}, []string{"from", "to"}),
		notificationSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notification_deliveries_total",
			Help:      "Notification attempts per channel and outcome",
		}, []string{"channel", "outcome"}),
		observerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "observer_failures_total",
			Help:      "Lifecycle event handlers that failed",
		}, []string{"event"}),
		customersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "customers_registered_total",
			Help:      "Customers registered",
		}),
	}
	m.registry.MustRegister(
		m.ticketsCreated,
		m.ticketRejections,
		m.ticketTransitions,
		m.notificationSends,
		m.observerFailures,
		m.customersRegistered,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordTicketCreated(priority string) {
	if m == nil {
		return
	}
	m.ticketsCreated.WithLabelValues(priority).Inc()
}

func (m *Metrics) RecordRejection(code string) {
	if m == nil {
		return
	}
	m.ticketRejections.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.ticketTransitions.WithLabelValues(from, to).Inc()
}

// RecordDelivery counts one channel attempt; outcome is "sent" or "failed".
func (m *Metrics) RecordDelivery(channel, outcome string) {
	if m == nil {
		return
	}
	m.notificationSends.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) RecordObserverFailure(event string) {
	if m == nil {
		return
	}
	m.observerFailures.WithLabelValues(event).Inc()
}

func (m *Metrics) RecordCustomerRegistered() {
	if m == nil {
		return
	}
	m.customersRegistered.Inc()
}

// Sample is one counter value with its labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers every counter, sorted by metric name.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			samples = append(samples, Sample{
				Name:   family.GetName(),
				Labels: labels,
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}
