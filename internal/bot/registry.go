package bot

import (
	"CaptionRelay/internal/adapters/telegram"
	"CaptionRelay/internal/core/ports"
	"CaptionRelay/internal/shared/config"

	"github.com/rs/zerolog"
)

// --- Define types for handler "constructors" ---
// This allows us to pass dependencies from main.go

type CommandHandlerConstructor func(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.CommandHandler

type VideoHandlerConstructor func(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.VideoHandler

type TextHandlerConstructor func(
	cfg *config.Config,
	queue ports.DeliveryQueue,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) ports.TextHandler

// --- Create the global registries ---

var (
	commandRegistry []CommandHandlerConstructor
	videoHandler    VideoHandlerConstructor
	textHandler     TextHandlerConstructor
)

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterVideo is called by the video handler in its init() function
func RegisterVideo(constructor VideoHandlerConstructor) {
	// We only allow one video handler
	videoHandler = constructor
}

// RegisterText is called by the text handler in its init() function
func RegisterText(constructor TextHandlerConstructor) {
	// We only allow one global text handler
	textHandler = constructor
}

// RegisterAllHandlers is the single function called by main.go
// It builds all registered handlers and passes them to the router.
func RegisterAllHandlers(
	cfg *config.Config,
	router *telegram.Router,
	queue ports.DeliveryQueue,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) {
	log := baseLogger.With().Str("component", "handler_registry").Logger()

	// Register all commands
	for _, constructor := range commandRegistry {
		handler := constructor(cfg, queue, botClient, baseLogger)
		router.RegisterCommandHandler(handler)
	}

	if videoHandler != nil {
		router.SetVideoHandler(videoHandler(cfg, queue, botClient, baseLogger))
		log.Info().Msg("Registered video handler")
	} else {
		log.Warn().Msg("No video handler registered; videos will be ignored")
	}

	// Register the single text handler
	if textHandler != nil {
		router.SetTextHandler(textHandler(cfg, queue, botClient, baseLogger))
		log.Info().Msg("Registered main text handler")
	}
}
