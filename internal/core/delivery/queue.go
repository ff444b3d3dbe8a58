// Package delivery owns the per-sender FIFO queues that feed normalized
// captions back to Telegram.
//
// Each sender has at most one drain goroutine. A drain takes the head job,
// processes it to a terminal outcome, removes it and moves on; when the
// sender's queue is empty the drain exits and the sender's state is
// deleted. Different senders drain concurrently.
//
// Jobs are never retried. A failed delivery is reported to the sender and
// the next job is processed as usual.
package delivery

import (
	"CaptionRelay/internal/core/caption"
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrQueueClosed is returned by Enqueue after Close.
var ErrQueueClosed = errors.New("delivery queue is closed")

// DefaultPacingDelay keeps us under Telegram's per-chat send limits.
const DefaultPacingDelay = 500 * time.Millisecond

// Options tunes the drain loop.
type Options struct {
	// PacingDelay is slept after every delivery attempt.
	PacingDelay time.Duration
	// Timeout is the deadline put on the context of a single SendVideo call.
	// The Telegram transport enforces it on its HTTP client instead. Zero
	// means no timeout.
	Timeout time.Duration
}

// senderQueue is the state of one sender. It exists only while draining.
type senderQueue struct {
	jobs     []*domain.Job
	draining bool
}

// Queue implements ports.DeliveryQueue.
type Queue struct {
	mu      sync.Mutex
	senders map[int64]*senderQueue
	seq     uint64
	closed  bool
	wg      sync.WaitGroup

	normalizer *caption.Normalizer
	sender     ports.MediaSender
	notifier   ports.JobNotifier
	bus        ports.EventBus // optional
	opts       Options
	log        zerolog.Logger
}

var _ ports.DeliveryQueue = (*Queue)(nil)

// NewQueue creates an empty queue. bus may be nil.
func NewQueue(
	normalizer *caption.Normalizer,
	sender ports.MediaSender,
	notifier ports.JobNotifier,
	bus ports.EventBus,
	opts Options,
	baseLogger *zerolog.Logger,
) *Queue {
	return &Queue{
		senders:    make(map[int64]*senderQueue),
		normalizer: normalizer,
		sender:     sender,
		notifier:   notifier,
		bus:        bus,
		opts:       opts,
		log:        baseLogger.With().Str("component", "delivery_queue").Logger(),
	}
}

// Enqueue appends job to its sender's queue and starts a drain if the
// sender was idle. The drain outlives ctx's cancellation but keeps its
// values (logger, request IDs).
func (q *Queue) Enqueue(ctx context.Context, job *domain.Job) (int, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, ErrQueueClosed
	}

	q.seq++
	job.Seq = q.seq
	job.EnqueuedAt = time.Now()

	st, ok := q.senders[job.SenderID]
	if !ok {
		st = &senderQueue{}
		q.senders[job.SenderID] = st
	}
	st.jobs = append(st.jobs, job)
	position := len(st.jobs)

	startDrain := !st.draining
	if startDrain {
		st.draining = true
		q.wg.Add(1)
	}
	q.mu.Unlock()

	q.log.Debug().
		Str("job_id", job.ID.String()).
		Int64("sender_id", job.SenderID).
		Uint64("seq", job.Seq).
		Int("position", position).
		Msg("Job enqueued")
	q.publish(ctx, domain.TopicJobEnqueued, domain.JobEvent{Job: *job})

	if startDrain {
		q.publish(ctx, domain.TopicDrainStarted, domain.DrainEvent{SenderID: job.SenderID})
		go q.drain(context.WithoutCancel(ctx), job.SenderID)
	}
	return position, nil
}

// Close stops accepting new jobs. Drains already running keep going.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Wait blocks until every drain has finished or ctx is done.
// Call Close first, otherwise new drains may keep starting.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of queued jobs (including the one in flight)
// for a sender.
func (q *Queue) Pending(senderID int64) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if st, ok := q.senders[senderID]; ok {
		return len(st.jobs)
	}
	return 0
}

// PendingTotal returns the number of queued jobs across all senders,
// including the ones in flight.
func (q *Queue) PendingTotal() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, st := range q.senders {
		n += len(st.jobs)
	}
	return n
}

// ActiveSenders returns the number of senders currently draining.
func (q *Queue) ActiveSenders() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.senders)
}

// drain runs until the sender's queue is empty.
func (q *Queue) drain(ctx context.Context, senderID int64) {
	defer q.wg.Done()

	log := q.log.With().Int64("sender_id", senderID).Logger()
	log.Debug().Msg("Drain started")

	for {
		job, ok := q.peek(senderID)
		if !ok {
			break
		}

		attempted := q.process(ctx, job)
		q.removeHead(senderID)

		if attempted && q.opts.PacingDelay > 0 {
			time.Sleep(q.opts.PacingDelay)
		}
	}

	log.Debug().Msg("Drain finished")
	q.publish(ctx, domain.TopicDrainStopped, domain.DrainEvent{SenderID: senderID})
}

// peek returns the head job. When the queue is empty it deletes the
// sender's state, which returns the sender to idle.
func (q *Queue) peek(senderID int64) (*domain.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, ok := q.senders[senderID]
	if !ok {
		return nil, false
	}
	if len(st.jobs) == 0 {
		delete(q.senders, senderID)
		return nil, false
	}
	return st.jobs[0], true
}

func (q *Queue) removeHead(senderID int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	st, ok := q.senders[senderID]
	if !ok || len(st.jobs) == 0 {
		return
	}
	st.jobs[0] = nil
	st.jobs = st.jobs[1:]
}

// process drives one job to its outcome. It reports whether a delivery
// was attempted, which is what the pacing delay is meant to space out.
func (q *Queue) process(ctx context.Context, job *domain.Job) (attempted bool) {
	start := time.Now()
	log := q.log.With().
		Str("job_id", job.ID.String()).
		Int64("sender_id", job.SenderID).
		Int64("chat_id", job.ChatID).
		Uint64("seq", job.Seq).
		Logger()
	ctx = log.WithContext(ctx)

	if !job.HasCaption() {
		log.Info().Msg("Video has no caption, skipping")
		if err := q.notifier.NotifyMissingCaption(ctx, job); err != nil {
			log.Warn().Err(err).Msg("Failed to send missing caption notice")
		}
		q.finish(ctx, job, domain.OutcomeMissingCaption, nil, start)
		return false
	}

	statusID, err := q.notifier.NotifyProcessing(ctx, job)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to post processing status")
	}

	text, _ := q.normalizer.Normalize(job.RawCaption)

	if err := q.deliver(ctx, job, text); err != nil {
		log.Error().Err(err).Msg("Delivery failed")
		if nerr := q.notifier.NotifyFailed(ctx, job, statusID, err); nerr != nil {
			log.Warn().Err(nerr).Msg("Failed to send failure notice")
		}
		q.finish(ctx, job, domain.OutcomeFailed, err, start)
		return true
	}

	log.Info().Str("caption", text).Msg("Video re-sent with new caption")
	if err := q.notifier.NotifyCompleted(ctx, job, statusID); err != nil {
		log.Warn().Err(err).Msg("Failed to send completion notice")
	}
	q.finish(ctx, job, domain.OutcomeDelivered, nil, start)
	return true
}

// deliver calls the transport. A panic in the transport is turned into an
// error so it stays local to the job.
func (q *Queue) deliver(ctx context.Context, job *domain.Job, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sending video: %v", r)
		}
	}()

	if q.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.opts.Timeout)
		defer cancel()
	}

	_, err = q.sender.SendVideo(ctx, ports.SendVideoParams{
		ChatID:            job.ChatID,
		FileID:            job.MediaHandle,
		Caption:           text,
		ParseMode:         ports.ParseModeHTML,
		SupportsStreaming: true,
	})
	return err
}

func (q *Queue) finish(ctx context.Context, job *domain.Job, outcome domain.Outcome, err error, start time.Time) {
	q.publish(ctx, domain.TopicJobFinished, domain.JobEvent{
		Job:      *job,
		Outcome:  outcome,
		Err:      err,
		Duration: time.Since(start),
	})
}

func (q *Queue) publish(ctx context.Context, topic string, data any) {
	if q.bus == nil {
		return
	}
	if err := q.bus.Publish(ctx, topic, data); err != nil {
		q.log.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
