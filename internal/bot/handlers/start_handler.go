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
	bot.RegisterCommand(NewStartHandler)
}

// startHandler is the plugin for the /start command. The router only lets
// authorized users reach it.
type startHandler struct {
	log zerolog.Logger
	bot ports.BotClientPort
}

// NewStartHandler creates a new handler for the /start command.
func NewStartHandler(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CommandHandler {
	return &startHandler{
		log: baseLogger.With().Str("component", "start_handler").Logger(),
		bot: bot,
	}
}

// Command returns the command string (without the "/")
func (h *startHandler) Command() string {
	return "start"
}

// Handle replies with the usage text.
func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	params := messages.NewBuilder(update.ChatID).
		WithText(messages.Welcome()).
		WithReplyTo(update.MessageID).
		Build()

	if _, err := h.bot.SendMessage(ctx, params); err != nil {
		h.log.Error().Err(err).Int64("user_id", update.UserID).Msg("Failed to send welcome message")
		return err
	}
	return nil
}
