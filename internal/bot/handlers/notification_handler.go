package handlers

import (
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// NotificationHandler tells senders what happened to their videos.
// It is NOT a registered router handler; the delivery queue calls it.
//
// Jobs from the working group get no notices at all: the group only ever
// sees the re-captioned video.
type NotificationHandler struct {
	log zerolog.Logger
	bot ports.BotClientPort
}

var _ ports.JobNotifier = (*NotificationHandler)(nil)

// NewNotificationHandler creates the delivery notifier.
func NewNotificationHandler(bot ports.BotClientPort, baseLogger *zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		log: baseLogger.With().Str("component", "notification_handler").Logger(),
		bot: bot,
	}
}

func (h *NotificationHandler) NotifyMissingCaption(ctx context.Context, job *domain.Job) error {
	if job.IsGroup() {
		return nil
	}
	return h.reply(ctx, job, messages.MissingCaption())
}

func (h *NotificationHandler) NotifyProcessing(ctx context.Context, job *domain.Job) (int, error) {
	if job.IsGroup() {
		return 0, nil
	}
	return h.bot.SendMessage(ctx, h.replyParams(job, messages.Processing()))
}

func (h *NotificationHandler) NotifyCompleted(ctx context.Context, job *domain.Job, statusMessageID int) error {
	if job.IsGroup() {
		return nil
	}
	h.clearStatus(ctx, job, statusMessageID)
	return h.reply(ctx, job, messages.Completed())
}

func (h *NotificationHandler) NotifyFailed(ctx context.Context, job *domain.Job, statusMessageID int, cause error) error {
	if job.IsGroup() {
		zerolog.Ctx(ctx).Warn().Err(cause).Msg("Group delivery failed")
		return nil
	}
	h.clearStatus(ctx, job, statusMessageID)
	return h.reply(ctx, job, messages.Failed(cause))
}

// clearStatus removes the "processing" message. Failing to do so is only
// cosmetic.
func (h *NotificationHandler) clearStatus(ctx context.Context, job *domain.Job, statusMessageID int) {
	if statusMessageID == 0 {
		return
	}
	if err := h.bot.DeleteMessage(ctx, job.ChatID, statusMessageID); err != nil {
		h.log.Debug().Err(err).Str("job_id", job.ID.String()).Msg("Could not delete status message")
	}
}

func (h *NotificationHandler) reply(ctx context.Context, job *domain.Job, text string) error {
	_, err := h.bot.SendMessage(ctx, h.replyParams(job, text))
	return err
}

func (h *NotificationHandler) replyParams(job *domain.Job, text string) ports.SendMessageParams {
	return messages.NewBuilder(job.ChatID).
		WithText(text).
		WithReplyTo(job.MessageID).
		Build()
}
