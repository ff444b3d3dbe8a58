package telegram

import (
	"CaptionRelay/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// shardBuffer is the per-worker backlog of updates.
const shardBuffer = 100

// UpdateHandler processes one Telegram update. *Router implements it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// BotServer is responsible for running the bot (polling or webhook)
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	cfg     *config.BotConfig
	log     zerolog.Logger
}

// NewBotServer creates a new server instance
func NewBotServer(
	api *tgbotapi.BotAPI,
	handler UpdateHandler,
	cfg *config.BotConfig,
	baseLogger *zerolog.Logger,
) *BotServer {
	return &BotServer{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start begins the bot server based on the config mode
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting bot server...")

	switch s.cfg.Mode {
	case "polling":
		// startPolling will block until the context is cancelled
		return s.startPolling(ctx)
	case "webhook":
		// startWebhook will block until the context is cancelled
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// startPolling starts the bot in long polling mode with a worker pool
func (s *BotServer) startPolling(ctx context.Context) error {
	s.log.Info().Int("workers", s.cfg.Polling.WorkerPoolSize).Msg("Starting bot in POLLING mode")

	// 1. Clear any existing webhook, dropping the backlog like a fresh start
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	}
	if _, err := s.api.Request(deleteWebhookConfig); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	} else {
		s.log.Info().Msg("Webhook deleted successfully")
	}

	// 2. Create the channel for updates
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	// 3. Start the worker pool
	pool := newWorkerPool(s.handler, s.cfg.Polling.WorkerPoolSize, s.log)
	s.log.Info().Msg("Polling update listener started")

	// 4. Main loop: Listen for updates and dispatch jobs
	err := s.dispatchLoop(ctx, updates, pool)
	s.api.StopReceivingUpdates()
	pool.stop()
	s.log.Info().Msg("Polling stopped gracefully")
	return err
}

// startWebhook starts the bot in webhook mode (for production)
func (s *BotServer) startWebhook(ctx context.Context) error {
	s.log.Info().
		Int("port", s.cfg.Webhook.ListenPort).
		Int("workers", s.cfg.Polling.WorkerPoolSize). // We reuse the worker pool size
		Msg("Starting bot in WEBHOOK mode")

	// 1. Set the webhook
	webhookPath := "/webhook/" + s.api.Token
	wh, err := tgbotapi.NewWebhook(s.cfg.Webhook.URL + webhookPath)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err := s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}

	// 2. Check what Telegram thinks of it
	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().
			Str("error_message", info.LastErrorMessage).
			Msg("Telegram webhook has a last error")
	} else {
		s.log.Info().Msg("Webhook set successfully, no last error")
	}

	// 3. Get the update channel from the bot library.
	// This registers on http.DefaultServeMux.
	updates := s.api.ListenForWebhook(webhookPath)

	// 4. Start the HTTP server. TLS is terminated by the reverse proxy.
	listenAddr := fmt.Sprintf("127.0.0.1:%d", s.cfg.Webhook.ListenPort)
	s.log.Info().Str("addr", listenAddr).Msg("Starting HTTP server for webhook")

	httpServer := &http.Server{Addr: listenAddr}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
		}
	}()

	// 5. Start the worker pool (identical to polling)
	pool := newWorkerPool(s.handler, s.cfg.Polling.WorkerPoolSize, s.log)

	// 6. Main loop: Listen for updates and dispatch jobs
	s.log.Info().Msg("Webhook update listener started")
	err = s.dispatchLoop(ctx, updates, pool)

	s.log.Info().Msg("Shutting down HTTP server...")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		s.log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	pool.stop()
	s.log.Info().Msg("Webhook server stopped gracefully")
	return err
}

func (s *BotServer) dispatchLoop(ctx context.Context, updates tgbotapi.UpdatesChannel, pool *workerPool) error {
	for {
		select {
		case <-ctx.Done(): // Shutdown signal received
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			pool.dispatch(update)
		}
	}
}

// workerPool runs one goroutine per shard. Updates are sharded by sender so
// that one sender's updates are handled in the order they arrived.
type workerPool struct {
	handler UpdateHandler
	shards  []chan tgbotapi.Update
	wg      sync.WaitGroup
	log     zerolog.Logger
}

func newWorkerPool(handler UpdateHandler, size int, log zerolog.Logger) *workerPool {
	if size < 1 {
		size = 1
	}
	p := &workerPool{
		handler: handler,
		shards:  make([]chan tgbotapi.Update, size),
		log:     log,
	}
	for i := range p.shards {
		p.shards[i] = make(chan tgbotapi.Update, shardBuffer)
		p.wg.Add(1)
		go p.run(i+1, p.shards[i])
	}
	return p
}

func (p *workerPool) run(id int, jobs <-chan tgbotapi.Update) {
	defer p.wg.Done()
	log := p.log.With().Int("worker_id", id).Logger()
	log.Info().Msg("Starting update worker")

	// Handlers must finish their Telegram calls even during shutdown.
	ctx := log.WithContext(context.Background())
	for update := range jobs {
		p.handle(ctx, log, &update)
	}
	log.Info().Msg("Stopping update worker (channel closed)")
}

// handle keeps a panicking handler from taking the worker down.
func (p *workerPool) handle(ctx context.Context, log zerolog.Logger, update *tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Int("update_id", update.UpdateID).
				Msg("Recovered from panic in update handler")
		}
	}()
	p.handler.HandleUpdate(ctx, update)
}

func (p *workerPool) dispatch(update tgbotapi.Update) {
	p.shards[shardFor(&update, len(p.shards))] <- update
}

// stop closes all shards and waits for queued updates to be handled.
func (p *workerPool) stop() {
	for _, ch := range p.shards {
		close(ch)
	}
	p.wg.Wait()
}

func shardFor(update *tgbotapi.Update, n int) int {
	key := int64(update.UpdateID)
	if msg := update.Message; msg != nil {
		switch {
		case msg.From != nil:
			key = msg.From.ID
		case msg.Chat != nil:
			key = msg.Chat.ID
		}
	}
	return int(uint64(key) % uint64(n))
}
