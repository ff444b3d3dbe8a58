package telegram

import (
	"CaptionRelay/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// botAPI is the part of *tgbotapi.BotAPI the client uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// tgClient implements the BotClientPort.
type tgClient struct {
	api botAPI
	log zerolog.Logger
}

var _ ports.BotClientPort = (*tgClient)(nil)

// NewClient creates a new Telegram client adapter.
func NewClient(api botAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	log := baseLogger.With().Str("component", "tg_client").Logger()
	return &tgClient{api: api, log: log}
}

// SendMessage translates our params into a tgbotapi message.
func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	msg.ReplyToMessageID = params.ReplyToMessageID
	// Replying to a message that was deleted meanwhile should not fail.
	msg.AllowSendingWithoutReply = true

	sent, err := c.send(ctx, msg)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return 0, err
	}
	return sent.MessageID, nil
}

// SendVideo re-sends an existing video by file_id. Nothing is uploaded.
func (c *tgClient) SendVideo(ctx context.Context, params ports.SendVideoParams) (int, error) {
	video := tgbotapi.NewVideo(params.ChatID, tgbotapi.FileID(params.FileID))
	video.Caption = params.Caption
	video.ParseMode = params.ParseMode
	video.SupportsStreaming = params.SupportsStreaming

	sent, err := c.send(ctx, video)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send video")
		return 0, err
	}
	return sent.MessageID, nil
}

// DeleteMessage removes a message. Telegram answers with a bare bool, so
// this goes through Request rather than Send.
func (c *tgClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	cfg := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := c.request(ctx, cfg); err != nil {
		c.log.Warn().Err(err).
			Int64("chat_id", chatID).
			Int("message_id", messageID).
			Msg("Failed to delete message")
		return err
	}
	return nil
}

// SetMenuCommands sets the bot's /menu commands.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "How to use the bot"},
		{Command: "test", Description: "Check access to the working group"},
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := c.request(ctx, config); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

// send runs api.Send. A call that has started is always waited for: the
// caller must never move on while a message may still be on its way. ctx is
// only checked before the call; the HTTP client's timeout bounds the call.
func (c *tgClient) send(ctx context.Context, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := ctx.Err(); err != nil {
		return tgbotapi.Message{}, err
	}
	return c.api.Send(chattable)
}

func (c *tgClient) request(ctx context.Context, chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.api.Request(chattable)
}
