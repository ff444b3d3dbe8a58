package telegram

import (
	"CaptionRelay/internal/adapters/metrics"
	"CaptionRelay/internal/bot/messages"
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Router is the "Bot Facade." It holds all "plugins", applies the access
// policy and routes incoming updates to the correct handler.
type Router struct {
	log             zerolog.Logger
	policy          ports.AccessPolicy
	botClient       ports.BotClientPort
	limiter         ports.RateLimiter
	commandHandlers map[string]ports.CommandHandler
	videoHandler    ports.VideoHandler
	textHandler     ports.TextHandler
}

// NewRouter creates a new bot facade/router.
func NewRouter(
	policy ports.AccessPolicy,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *Router {
	return &Router{
		log:             baseLogger.With().Str("component", "tg_router").Logger(),
		policy:          policy,
		botClient:       botClient,
		commandHandlers: make(map[string]ports.CommandHandler),
	}
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *Router) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new command handler")
}

// SetVideoHandler registers the single video handler.
func (r *Router) SetVideoHandler(handler ports.VideoHandler) {
	r.videoHandler = handler
}

// SetTextHandler registers the single, global text handler.
func (r *Router) SetTextHandler(handler ports.TextHandler) {
	r.textHandler = handler
}

// SetRateLimiter enables per-sender throttling of private videos.
func (r *Router) SetRateLimiter(limiter ports.RateLimiter) {
	r.limiter = limiter
}

// HandleUpdate is the main entry point for a new update from Telegram.
func (r *Router) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := r.parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Ignoring unsupported update type")
		return
	}
	metrics.IncUpdateReceived(updateKind(botUpdate))

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Str("chat_kind", string(botUpdate.ChatKind)).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	if botUpdate.ChatKind == domain.ChatGroup {
		r.routeGroup(ctx, ctxLogger, botUpdate)
		return
	}
	r.routePrivate(ctx, ctxLogger, botUpdate)
}

// routeGroup handles updates from group chats. Only the working group is
// served and it only ever gets re-captioned videos back.
func (r *Router) routeGroup(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) {
	if !r.policy.IsFromDesignatedChannel(u.ChatID, u.ChatKind) {
		metrics.IncUpdateRejected("wrong_chat")
		log.Debug().Msg("Dropping update from non-working group")
		return
	}

	switch {
	case u.Video != nil:
		r.dispatchVideo(ctx, log, u)
	case u.Command != "":
		if !r.policy.IsAuthorized(u.UserID) {
			r.reject(ctx, log, u)
			return
		}
		r.dispatchCommand(ctx, log, u)
	}
}

func (r *Router) routePrivate(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) {
	if !r.policy.IsAuthorized(u.UserID) {
		r.reject(ctx, log, u)
		return
	}

	// 3. Route commands first
	if u.Command != "" {
		if r.dispatchCommand(ctx, log, u) {
			return
		}
		// Unknown commands fall through to the text handler.
	}

	if u.Video != nil {
		if !r.allow(ctx, log, u) {
			return
		}
		r.dispatchVideo(ctx, log, u)
		return
	}

	if r.textHandler != nil {
		if err := r.textHandler.Handle(ctx, u); err != nil {
			log.Error().Err(err).Msg("Text handler failed")
		}
		return
	}

	log.Info().Str("text", u.Text).Msg("Received unhandled text message (no handler)")
}

func (r *Router) dispatchCommand(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) bool {
	handler, ok := r.commandHandlers[u.Command]
	if !ok {
		return false
	}
	metrics.IncCommand(u.Command)
	log.Info().Str("handler", u.Command).Msg("Routing to command handler")
	if err := handler.Handle(ctx, u); err != nil {
		log.Error().Err(err).Msg("Command handler failed")
	}
	return true
}

func (r *Router) dispatchVideo(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) {
	if r.videoHandler == nil {
		log.Warn().Msg("No video handler registered")
		return
	}
	if err := r.videoHandler.Handle(ctx, u); err != nil {
		log.Error().Err(err).Msg("Video handler failed")
	}
}

// allow applies the optional rate limiter. A limiter error lets the video
// through; losing Redis must not stop the relay.
func (r *Router) allow(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) bool {
	if r.limiter == nil {
		return true
	}

	ok, err := r.limiter.Allow(ctx, u.UserID)
	if err != nil {
		log.Warn().Err(err).Msg("Rate limiter unavailable, allowing video")
		return true
	}
	if ok {
		return true
	}

	metrics.IncUpdateRejected("rate_limited")
	log.Info().Msg("Sender is over the rate limit")
	params := messages.NewBuilder(u.ChatID).
		WithText(messages.RateLimited()).
		WithReplyTo(u.MessageID).
		Build()
	if _, err := r.botClient.SendMessage(ctx, params); err != nil {
		log.Warn().Err(err).Msg("Failed to send rate limit notice")
	}
	return false
}

func (r *Router) reject(ctx context.Context, log zerolog.Logger, u *ports.BotUpdate) {
	metrics.IncUpdateRejected("unauthorized")
	log.Info().Msg("Rejecting unauthorized user")

	params := messages.NewBuilder(u.ChatID).
		WithText(messages.Unauthorized(u.UserID)).
		WithReplyTo(u.MessageID).
		Build()
	if _, err := r.botClient.SendMessage(ctx, params); err != nil {
		log.Warn().Err(err).Msg("Failed to send rejection")
	}
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
// Channel posts, edits and callbacks are not supported.
func (r *Router) parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return nil, false
	}

	var kind domain.ChatKind
	switch msg.Chat.Type {
	case "private":
		kind = domain.ChatPrivate
	case "group", "supergroup":
		kind = domain.ChatGroup
	default:
		return nil, false
	}

	botUpdate := &ports.BotUpdate{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		ChatKind:  kind,
		UserID:    msg.From.ID,
		Text:      msg.Text,
		Command:   msg.Command(),
		Caption:   msg.Caption,
	}
	if msg.Video != nil {
		botUpdate.Video = &ports.VideoInfo{
			FileID:   msg.Video.FileID,
			FileName: msg.Video.FileName,
			MimeType: msg.Video.MimeType,
		}
	}
	return botUpdate, true
}

func updateKind(u *ports.BotUpdate) string {
	switch {
	case u.Video != nil:
		return "video"
	case u.Command != "":
		return "command"
	case u.Text != "":
		return "text"
	default:
		return "other"
	}
}
