package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(moderationActionsTotal) }

var moderationActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Admin moderation actions by action and status.",
	},
	[]string{"action", "status"}, // status: 'ok', 'denied', 'failed'
)

func IncModerationAction(action, status string) {
	moderationActionsTotal.WithLabelValues(norm(action), norm(status)).Inc()
}
