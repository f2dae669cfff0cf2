package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AvailabilityFetches *prometheus.CounterVec
	AddressLookups      *prometheus.CounterVec
	Payments            *prometheus.CounterVec
	PersistenceRetries  *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
}

// New создает метрики и регистрирует их в default registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном registry (для тестов)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AvailabilityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_availability_fetches_total",
			Help:        "Availability fetches by outcome (ok, error, stale)",
			ConstLabels: labels,
		}, []string{"outcome"}),
		AddressLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_address_lookups_total",
			Help:        "Address lookups by kind (suggest, locate) and outcome (ok, error, stale)",
			ConstLabels: labels,
		}, []string{"kind", "outcome"}),
		Payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_payments_total",
			Help:        "Deposit payments by outcome (paid, declined, error)",
			ConstLabels: labels,
		}, []string{"outcome"}),
		PersistenceRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_persistence_retries_total",
			Help:        "Retries of booking persistence after successful payment",
			ConstLabels: labels,
		}, []string{"source", "outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "wizard_active_sessions",
			Help:        "Number of live wizard sessions",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AvailabilityFetches,
		m.AddressLookups,
		m.Payments,
		m.PersistenceRetries,
		m.ActiveSessions,
	)

	return m
}

// ObserveAvailability реализует availability.Observer
func (m *Metrics) ObserveAvailability(outcome string) {
	if m == nil {
		return
	}
	m.AvailabilityFetches.WithLabelValues(outcome).Inc()
}

// ObserveAddressLookup реализует autocomplete.Observer
func (m *Metrics) ObserveAddressLookup(kind, outcome string) {
	if m == nil {
		return
	}
	m.AddressLookups.WithLabelValues(kind, outcome).Inc()
}

// ObservePayment учитывает исход оплаты депозита
func (m *Metrics) ObservePayment(outcome string) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(outcome).Inc()
}

// ObservePersistenceRetry учитывает повторную попытку сохранения бронирования
func (m *Metrics) ObservePersistenceRetry(source, outcome string) {
	if m == nil {
		return
	}
	m.PersistenceRetries.WithLabelValues(source, outcome).Inc()
}

// SessionOpened увеличивает gauge активных сессий
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

// SessionClosed уменьшает gauge активных сессий
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}
