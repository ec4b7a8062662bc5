package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsProcessedTotal,
		paymentsRevenueTotal,
		entitlementsActivatedTotal,
	)
}

var (
	paymentsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Admin payment decisions by outcome (approved/rejected/failed).",
		},
		[]string{"outcome", "purpose"},
	)

	paymentsRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "Total monetary value of approved payments, in rupees.",
		},
	)

	entitlementsActivatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entitlements_activated_total",
			Help: "Entitlements activated or renewed by kind (membership/banner).",
		},
		[]string{"kind"},
	)
)

func IncPaymentProcessed(outcome, purpose string) {
	paymentsProcessedTotal.WithLabelValues(norm(outcome), norm(purpose)).Inc()
}

func AddPaymentRevenue(amount int64) {
	paymentsRevenueTotal.Add(float64(amount))
}

func IncEntitlementActivated(kind string) {
	entitlementsActivatedTotal.WithLabelValues(norm(kind)).Inc()
}
