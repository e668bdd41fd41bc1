package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records shopping-state activity: one counter per applied
// action, snapshot write failures, and mock checkout latency.
type ShopMetrics struct {
	actions          *prometheus.CounterVec
	snapshotFailures prometheus.Counter
	checkoutDuration prometheus.Histogram
}

// NewShopMetrics registers the shop metrics on the provided registerer.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_actions_total",
		Help: "Shopping-state actions applied, by action name.",
	}, []string{"action"})
	snapshotFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_snapshot_write_failures_total",
		Help: "Best-effort snapshot writes that failed.",
	})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_checkout_duration_seconds",
		Help:    "Duration of checkout processing in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(actions, snapshotFailures, checkoutDuration)
	return &ShopMetrics{
		actions:          actions,
		snapshotFailures: snapshotFailures,
		checkoutDuration: checkoutDuration,
	}
}

// IncAction increments the counter for the named action.
func (m *ShopMetrics) IncAction(action string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncSnapshotFailure counts a swallowed snapshot write error.
func (m *ShopMetrics) IncSnapshotFailure() {
	if m == nil || m.snapshotFailures == nil {
		return
	}
	m.snapshotFailures.Inc()
}

// ObserveCheckout records the duration of one checkout.
func (m *ShopMetrics) ObserveCheckout(duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.Observe(duration.Seconds())
}

func normalizeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
