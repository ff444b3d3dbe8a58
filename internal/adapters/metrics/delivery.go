package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobsEnqueuedTotal,
		jobsFinishedTotal,
		jobDurationSeconds,
		jobsPending,
		activeDrains,
	)
}

var (
	jobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_relay_jobs_enqueued_total",
			Help: "Videos accepted into a sender queue, by chat kind.",
		},
		[]string{"chat_kind"},
	)

	jobsFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_relay_jobs_finished_total",
			Help: "Jobs by terminal outcome (delivered/failed/missing_caption).",
		},
		[]string{"outcome"},
	)

	jobDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "caption_relay_job_duration_seconds",
			Help:    "Time from taking a job off the queue head to its outcome.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	jobsPending = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "caption_relay_jobs_pending",
			Help: "Jobs waiting or in flight across all sender queues.",
		},
		func() float64 { return readQueue(QueueStats.PendingTotal) },
	)

	activeDrains = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "caption_relay_active_drains",
			Help: "Senders whose queue is currently draining.",
		},
		func() float64 { return readQueue(QueueStats.ActiveSenders) },
	)
)

func IncJobEnqueued(chatKind string) {
	jobsEnqueuedTotal.WithLabelValues(norm(chatKind)).Inc()
}

func ObserveJobFinished(outcome string, seconds float64) {
	o := norm(outcome)
	jobsFinishedTotal.WithLabelValues(o).Inc()
	jobDurationSeconds.WithLabelValues(o).Observe(seconds)
}

// QueueStats is the live delivery queue state behind the pending and
// draining gauges.
type QueueStats interface {
	PendingTotal() int
	ActiveSenders() int
}

var (
	queueMu sync.RWMutex
	queue   QueueStats
)

// TrackQueue makes the gauges read from q on every scrape. Both report 0
// until a queue is tracked.
func TrackQueue(q QueueStats) {
	queueMu.Lock()
	defer queueMu.Unlock()
	queue = q
}

func readQueue(read func(QueueStats) int) float64 {
	queueMu.RLock()
	defer queueMu.RUnlock()
	if queue == nil {
		return 0
	}
	return float64(read(queue))
}
