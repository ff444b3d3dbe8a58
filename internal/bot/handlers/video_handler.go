package handlers

import (
	"CaptionRelay/internal/adapters/metrics"
	"CaptionRelay/internal/bot"
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/delivery"
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"CaptionRelay/internal/shared/config"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterVideo(NewVideoHandler)
}

// videoHandler turns an accepted video into a delivery job.
type videoHandler struct {
	log   zerolog.Logger
	queue ports.DeliveryQueue
	bot   ports.BotClientPort
}

// NewVideoHandler creates the handler for video messages.
func NewVideoHandler(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.VideoHandler {
	return &videoHandler{
		log:   baseLogger.With().Str("component", "video_handler").Logger(),
		queue: queue,
		bot:   bot,
	}
}

// Handle enqueues the video. Processing happens on the sender's drain.
func (h *videoHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if update.Video == nil {
		return errors.New("video handler called without a video")
	}

	job := domain.NewJob(
		update.UserID,
		update.ChatID,
		update.ChatKind,
		update.MessageID,
		update.Video.FileID,
		update.Caption,
	)
	log := h.log.With().
		Str("job_id", job.ID.String()).
		Int64("sender_id", job.SenderID).
		Logger()

	position, err := h.queue.Enqueue(ctx, job)
	if err != nil {
		if errors.Is(err, delivery.ErrQueueClosed) {
			metrics.IncUpdateRejected("queue_closed")
			log.Warn().Msg("Queue closed, video refused")
			if !job.IsGroup() {
				h.reply(ctx, log, update, messages.ShuttingDown())
			}
		}
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	log.Info().Int("position", position).Msg("Video accepted")

	// The head of the queue gets its status message right away; anything
	// behind it learns its place in line.
	if position > 1 && !job.IsGroup() {
		h.reply(ctx, log, update, messages.Queued(position))
	}
	return nil
}

func (h *videoHandler) reply(ctx context.Context, log zerolog.Logger, update *ports.BotUpdate, text string) {
	params := messages.NewBuilder(update.ChatID).
		WithText(text).
		WithReplyTo(update.MessageID).
		Build()
	if _, err := h.bot.SendMessage(ctx, params); err != nil {
		log.Warn().Err(err).Msg("Failed to send reply")
	}
}
