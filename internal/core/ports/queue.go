package ports

import (
	"CaptionRelay/internal/core/domain"
	"context"
)

// DeliveryQueue accepts jobs for sequential, per-sender processing.
type DeliveryQueue interface {
	// Enqueue appends the job to its sender's queue and returns the job's
	// 1-based position in that queue.
	Enqueue(ctx context.Context, job *domain.Job) (position int, err error)
}

// JobNotifier tells the sender what happened to a job.
// All methods are called from the sender's drain goroutine, never
// concurrently for the same sender.
type JobNotifier interface {
	NotifyMissingCaption(ctx context.Context, job *domain.Job) error

	// NotifyProcessing posts a transient status and returns its message ID
	// (0 when nothing was posted).
	NotifyProcessing(ctx context.Context, job *domain.Job) (statusMessageID int, err error)

	// NotifyCompleted clears the transient status and confirms delivery.
	NotifyCompleted(ctx context.Context, job *domain.Job, statusMessageID int) error

	// NotifyFailed reports cause to the sender and clears the status.
	NotifyFailed(ctx context.Context, job *domain.Job, statusMessageID int, cause error) error
}
