package metrics

import "github.com/prometheus/client_golang/prometheus"

// Marketplace holds the business counters
type Marketplace struct {
	ordersPlaced       prometheus.Counter
	unitsSold          prometheus.Counter
	payments           *prometheus.CounterVec
	orderStatusChanges *prometheus.CounterVec
	authErrors         *prometheus.CounterVec
}

// NewMarketplace creates the marketplace counters under prefix and registers them with reg
func NewMarketplace(prefix string, reg prometheus.Registerer) *Marketplace {
	m := &Marketplace{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_orders_placed_total",
			Help: "Total number of orders placed",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_units_ordered_total",
			Help: "Total number of product units ordered",
		}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_payments_total",
			Help: "Total number of payment attempts by resulting status",
		}, []string{"status"}),
		orderStatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_order_status_changes_total",
			Help: "Total number of order status changes by target status",
		}, []string{"status"}),
		authErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		}, []string{"type"}),
	}

	reg.MustRegister(m.ordersPlaced, m.unitsSold, m.payments, m.orderStatusChanges, m.authErrors)
	return m
}

// RecordOrderPlaced counts one order of quantity units
func (m *Marketplace) RecordOrderPlaced(quantity int) {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.unitsSold.Add(float64(quantity))
}

// RecordPayment counts a payment attempt by its status
func (m *Marketplace) RecordPayment(status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(status).Inc()
}

// RecordOrderStatusChange counts a status transition by target status
func (m *Marketplace) RecordOrderStatusChange(status string) {
	if m == nil {
		return
	}
	m.orderStatusChanges.WithLabelValues(status).Inc()
}

// RecordAuthError counts an authentication failure by type
func (m *Marketplace) RecordAuthError(errorType string) {
	if m == nil {
		return
	}
	m.authErrors.WithLabelValues(errorType).Inc()
}
