package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics holds all payment-order metrics.
type OrderMetrics struct {
	OrdersCreatedTotal       prometheus.CounterVec
	OrdersCreatedUsdTotal    prometheus.CounterVec
	OrdersExecutedTotal      prometheus.CounterVec
	OrdersExecutedUsdTotal   prometheus.CounterVec
	TriggerNotMetTotal       prometheus.CounterVec
	SettlementShortfallTotal prometheus.CounterVec
	OrderErrorsTotal         prometheus.CounterVec

	PendingOrdersGauge prometheus.Gauge

	OracleRequestDuration prometheus.HistogramVec
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		OrdersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_created_total",
				Help: "Total payment orders created",
			},
			[]string{"order_type", "feed_id"},
		),

		OrdersCreatedUsdTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_created_usd_total",
				Help: "Total USD value of created payment orders",
			},
			[]string{"order_type", "feed_id"},
		),

		OrdersExecutedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_executed_total",
				Help: "Total payment orders settled, by execution path",
			},
			[]string{"path", "feed_id"},
		),

		OrdersExecutedUsdTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_executed_usd_total",
				Help: "Total USD value of settled payment orders",
			},
			[]string{"path", "feed_id"},
		),

		TriggerNotMetTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_trigger_not_met_total",
				Help: "Execution attempts rejected because the price sat between the bounds",
			},
			[]string{"feed_id"},
		),

		SettlementShortfallTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_orders_shortfall_total",
				Help: "Settlements where collateral did not cover the computed payout",
			},
			[]string{"feed_id"},
		),

		OrderErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_order_errors_total",
				Help: "Errors while creating or settling payment orders",
			},
			[]string{"error_type"},
		),

		PendingOrdersGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "payment_orders_pending",
				Help: "Pending orders seen by the last keeper scan",
			},
		),

		OracleRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oracle_price_request_duration_seconds",
				Help:    "Latency of oracle registry price reads",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"feed_id", "success"},
		),
	}
}

func (m *OrderMetrics) RecordOrderCreated(orderType, feedID string, usdAmount float64) {
	m.OrdersCreatedTotal.WithLabelValues(orderType, feedID).Inc()
	m.OrdersCreatedUsdTotal.WithLabelValues(orderType, feedID).Add(usdAmount)
}

func (m *OrderMetrics) RecordOrderExecuted(path, feedID string, usdAmount float64) {
	m.OrdersExecutedTotal.WithLabelValues(path, feedID).Inc()
	m.OrdersExecutedUsdTotal.WithLabelValues(path, feedID).Add(usdAmount)
}

func (m *OrderMetrics) RecordTriggerNotMet(feedID string) {
	m.TriggerNotMetTotal.WithLabelValues(feedID).Inc()
}

func (m *OrderMetrics) RecordShortfall(feedID string) {
	m.SettlementShortfallTotal.WithLabelValues(feedID).Inc()
}

func (m *OrderMetrics) RecordError(errorType string) {
	m.OrderErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *OrderMetrics) RecordPendingOrders(count int) {
	m.PendingOrdersGauge.Set(float64(count))
}

func (m *OrderMetrics) ObserveOracleRequest(feedID string, durationSeconds float64, success bool) {
	successStr := "false"
	if success {
		successStr = "true"
	}
	m.OracleRequestDuration.WithLabelValues(feedID, successStr).Observe(durationSeconds)
}
