package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramUpdatesReceivedTotal,
		telegramUpdatesRejectedTotal,
		telegramCommandsReceivedTotal,
	)
}

var (
	telegramUpdatesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_relay_telegram_updates_received_total",
			Help: "Incoming updates by kind (video/command/text/other).",
		},
		[]string{"kind"},
	)

	telegramUpdatesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_relay_telegram_updates_rejected_total",
			Help: "Updates dropped at ingress, by reason.",
		},
		[]string{"reason"}, // 'unauthorized', 'wrong_chat', 'rate_limited', 'queue_closed'
	)

	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_relay_telegram_commands_received_total",
			Help: "Commands routed to a handler.",
		},
		[]string{"command"},
	)
)

func IncUpdateReceived(kind string) {
	telegramUpdatesReceivedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncUpdateRejected(reason string) {
	telegramUpdatesRejectedTotal.WithLabelValues(norm(reason)).Inc()
}

func IncCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}
