package domain

import "time"

// Outcome is the terminal state of a Job.
type Outcome string

const (
	OutcomeDelivered      Outcome = "delivered"
	OutcomeFailed         Outcome = "failed"
	OutcomeMissingCaption Outcome = "missing_caption"
)

// Event bus topics for the delivery lifecycle.
const (
	TopicJobEnqueued  = "delivery:job:enqueued"
	TopicJobFinished  = "delivery:job:finished"
	TopicDrainStarted = "delivery:drain:started"
	TopicDrainStopped = "delivery:drain:stopped"
)

// JobEvent is the payload published for TopicJobEnqueued and TopicJobFinished.
// Outcome, Err and Duration are only set for finished jobs.
type JobEvent struct {
	Job      Job
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// DrainEvent is the payload for the drain start/stop topics.
type DrainEvent struct {
	SenderID int64
}
