package main

import (
	"CaptionRelay/internal/adapters/admin"
	"CaptionRelay/internal/adapters/eventbus"
	"CaptionRelay/internal/adapters/metrics"
	"CaptionRelay/internal/adapters/postgres"
	"CaptionRelay/internal/adapters/redis"
	"CaptionRelay/internal/adapters/security"
	"CaptionRelay/internal/adapters/telegram"
	"CaptionRelay/internal/bot"
	"CaptionRelay/internal/bot/handlers"
	"CaptionRelay/internal/core/caption"
	"CaptionRelay/internal/core/delivery"
	"CaptionRelay/internal/shared/config"
	"CaptionRelay/internal/shared/logger"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

// shutdownGrace bounds how long in-flight deliveries may take on exit.
const shutdownGrace = 30 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev(), cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("bot_mode", cfg.Bot.Mode).
		Str("version", version).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Metrics
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// 4. Access policy (env allow-list, optionally extended from Postgres)
	authorized := cfg.Access.AuthorizedUsers
	if cfg.Postgres.URL != "" {
		stored, err := loadStoredAllowList(ctx, cfg, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to load allow-list from database")
		}
		authorized = security.MergeIDs(authorized, stored)
	}
	if len(authorized) == 0 {
		baseLogger.Warn().Msg("Allow-list is empty; only working group videos will be processed")
	}
	policy := security.NewAllowList(authorized, cfg.Access.WorkingGroupID, &baseLogger)

	// 5. Telegram
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}
	baseLogger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	sendAPI, err := newSendAPI(cfg, api)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to create Telegram send client")
	}
	botClient := telegram.NewClient(sendAPI, &baseLogger)
	if err := botClient.SetMenuCommands(ctx); err != nil {
		baseLogger.Warn().Err(err).Msg("Failed to set menu commands (continuing)")
	}

	// 6. Delivery pipeline
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	metrics.SubscribeDeliveryEvents(bus)

	queue := delivery.NewQueue(
		caption.NewNormalizer(cfg.Caption.AttributionTag),
		botClient,
		handlers.NewNotificationHandler(botClient, &baseLogger),
		bus,
		delivery.Options{
			PacingDelay: cfg.Delivery.PacingDelay,
			Timeout:     cfg.Delivery.Timeout,
		},
		&baseLogger,
	)
	metrics.TrackQueue(queue)

	// 7. Router and handlers
	router := telegram.NewRouter(policy, botClient, &baseLogger)
	bot.RegisterAllHandlers(cfg, router, queue, botClient, &baseLogger)

	if cfg.Redis.URL != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		router.SetRateLimiter(redis.NewRateLimiter(rdb, cfg.Redis.RateLimit, cfg.Redis.RateWindow))
		baseLogger.Info().
			Int("limit", cfg.Redis.RateLimit).
			Dur("window", cfg.Redis.RateWindow).
			Msg("Rate limiting enabled")
	}

	// 8. Admin HTTP
	if cfg.Admin.Port != 0 {
		adminServer := admin.NewServer(cfg.Admin.Port, queue, &baseLogger)
		go func() {
			if err := adminServer.Start(ctx); err != nil {
				baseLogger.Error().Err(err).Msg("Admin server failed")
			}
		}()
	}

	// 9. Run until signalled
	server := telegram.NewBotServer(api, router, &cfg.Bot, &baseLogger)
	if err := server.Start(ctx); err != nil {
		baseLogger.Error().Err(err).Msg("Bot server stopped with error")
	}

	drainQueue(queue, &baseLogger)
	baseLogger.Info().Msg("Shutdown complete")
}

// newSendAPI returns the API used for outgoing calls. With a delivery
// timeout it gets its own HTTP client so the timeout ends the request itself;
// the receive loop keeps the default client for its 60s long poll.
func newSendAPI(cfg *config.Config, receiveAPI *tgbotapi.BotAPI) (*tgbotapi.BotAPI, error) {
	if cfg.Delivery.Timeout <= 0 {
		return receiveAPI, nil
	}
	return tgbotapi.NewBotAPIWithClient(
		cfg.Bot.Token,
		tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.Delivery.Timeout},
	)
}

func loadStoredAllowList(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) ([]int64, error) {
	db, err := postgres.NewDB(ctx, cfg.Postgres.URL, baseLogger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	ids, err := postgres.NewAllowListRepository(db, baseLogger).ListAuthorizedIDs(ctx)
	if err != nil {
		return nil, err
	}
	baseLogger.Info().Int("count", len(ids)).Msg("Loaded authorized users from database")
	return ids, nil
}

// drainQueue lets running deliveries finish. Jobs still queued after the
// grace period are abandoned.
func drainQueue(queue *delivery.Queue, baseLogger *zerolog.Logger) {
	queue.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := queue.Wait(ctx); err != nil {
		baseLogger.Warn().Err(err).Int("active_senders", queue.ActiveSenders()).Msg("Abandoning unfinished deliveries")
		return
	}
	baseLogger.Info().Msg("Delivery queue drained")
}
