package metrics

import "github.com/prometheus/client_golang/prometheus"

// GroupOrderMetrics counts lifecycle transitions and outbound notification results.
type GroupOrderMetrics struct {
	closeOutcomes *prometheus.CounterVec
	deliveries    prometheus.Counter
	notifications *prometheus.CounterVec
}

// NewGroupOrderMetrics registers the group order metrics on the provided registerer.
func NewGroupOrderMetrics(reg prometheus.Registerer) *GroupOrderMetrics {
	if reg == nil {
		return &GroupOrderMetrics{}
	}
	closeOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_order_close_total",
		Help: "Close attempts by outcome (closed, cancelled, already_closed).",
	}, []string{"outcome"})
	deliveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "group_order_delivered_total",
		Help: "Group orders marked delivered.",
	})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_dispatch_total",
		Help: "Outbound notifications by kind and result (sent, failed, skipped).",
	}, []string{"kind", "result"})
	reg.MustRegister(closeOutcomes, deliveries, notifications)
	return &GroupOrderMetrics{
		closeOutcomes: closeOutcomes,
		deliveries:    deliveries,
		notifications: notifications,
	}
}

func (m *GroupOrderMetrics) IncCloseOutcome(outcome string) {
	if m == nil || m.closeOutcomes == nil {
		return
	}
	m.closeOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *GroupOrderMetrics) IncDelivered() {
	if m == nil || m.deliveries == nil {
		return
	}
	m.deliveries.Inc()
}

func (m *GroupOrderMetrics) IncNotification(kind, result string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}
