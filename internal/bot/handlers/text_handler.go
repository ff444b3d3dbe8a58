package handlers

import (
	"CaptionRelay/internal/bot"
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/ports"
	"CaptionRelay/internal/shared/config"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterText(NewGuidanceHandler)
}

// guidanceHandler answers any private message that is not a video or a
// known command.
type guidanceHandler struct {
	log zerolog.Logger
	bot ports.BotClientPort
}

func NewGuidanceHandler(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.TextHandler {
	return &guidanceHandler{
		log: baseLogger.With().Str("component", "guidance_handler").Logger(),
		bot: bot,
	}
}

func (h *guidanceHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	params := messages.NewBuilder(update.ChatID).
		WithText(messages.Guidance()).
		WithReplyTo(update.MessageID).
		Build()
	_, err := h.bot.SendMessage(ctx, params)
	return err
}
