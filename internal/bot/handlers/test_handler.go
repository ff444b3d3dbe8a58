package handlers

import (
	"CaptionRelay/internal/bot"
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/ports"
	"CaptionRelay/internal/shared/config"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	bot.RegisterCommand(NewTestHandler)
}

// probeLifetime is how long the /test probe stays in the group.
var probeLifetime = 2 * time.Second

// testHandler checks that the bot can post to the working group.
type testHandler struct {
	log     zerolog.Logger
	bot     ports.BotClientPort
	groupID int64
}

// NewTestHandler creates a new handler for the /test command.
func NewTestHandler(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	bot ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CommandHandler {
	return &testHandler{
		log:     baseLogger.With().Str("component", "test_handler").Logger(),
		bot:     bot,
		groupID: cfg.Access.WorkingGroupID,
	}
}

func (h *testHandler) Command() string {
	return "test"
}

// Handle posts a probe to the working group, reports the result to the
// caller and removes the probe shortly after.
func (h *testHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	log := h.log.With().Int64("user_id", update.UserID).Int64("group_id", h.groupID).Logger()

	if h.groupID == 0 {
		return h.reply(ctx, update, messages.NoWorkingGroup())
	}

	probeID, err := h.bot.SendMessage(ctx, messages.NewBuilder(h.groupID).
		WithText(messages.TestProbe()).
		Build())
	if err != nil {
		log.Warn().Err(err).Msg("Group access test failed")
		if rerr := h.reply(ctx, update, messages.TestFailed(h.groupID, err)); rerr != nil {
			return rerr
		}
		return fmt.Errorf("post probe to group %d: %w", h.groupID, err)
	}

	log.Info().Int("probe_message_id", probeID).Msg("Group access test succeeded")

	time.AfterFunc(probeLifetime, func() {
		// Best effort; the probe is harmless if it stays.
		if err := h.bot.DeleteMessage(context.Background(), h.groupID, probeID); err != nil {
			log.Warn().Err(err).Msg("Failed to delete test probe")
		}
	})

	return h.reply(ctx, update, messages.TestSucceeded(h.groupID, probeID))
}

func (h *testHandler) reply(ctx context.Context, update *ports.BotUpdate, text string) error {
	params := messages.NewBuilder(update.ChatID).
		WithText(text).
		WithReplyTo(update.MessageID).
		Build()
	_, err := h.bot.SendMessage(ctx, params)
	return err
}
