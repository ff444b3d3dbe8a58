package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel string
	Bot      BotConfig
	Access   AccessConfig
	Caption  CaptionConfig
	Delivery DeliveryConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

// BotConfig holds the Telegram connection settings.
type BotConfig struct {
	Token   string
	Mode    string // "polling" or "webhook"
	Polling PollingConfig
	Webhook WebhookConfig
}

type PollingConfig struct {
	WorkerPoolSize int
}

type WebhookConfig struct {
	URL        string
	ListenPort int
}

// AccessConfig is the allow-list and the single group the bot works in.
type AccessConfig struct {
	AuthorizedUsers []int64
	WorkingGroupID  int64
}

type CaptionConfig struct {
	AttributionTag string
}

type DeliveryConfig struct {
	PacingDelay time.Duration
	Timeout     time.Duration // 0 means no timeout
}

type PostgresConfig struct {
	URL string
}

type RedisConfig struct {
	URL        string
	Password   string
	DB         int
	RateLimit  int
	RateWindow time.Duration
}

type AdminConfig struct {
	Port int
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

var envBindings = map[string]string{
	"app.env":                 "APP_ENV",
	"log.level":               "LOG_LEVEL",
	"bot.token":               "BOT_TOKEN",
	"bot.mode":                "BOT_MODE",
	"bot.workers":             "BOT_WORKERS",
	"bot.webhook.url":         "BOT_WEBHOOK_URL",
	"bot.webhook.port":        "BOT_WEBHOOK_PORT",
	"access.authorized_users": "AUTHORIZED_USERS",
	"access.working_group_id": "WORKING_GROUP_ID",
	"caption.tag":             "ATTRIBUTION_TAG",
	"delivery.pacing":         "DELIVERY_PACING",
	"delivery.timeout":        "DELIVERY_TIMEOUT",
	"postgres.url":            "DATABASE_URL",
	"redis.url":               "REDIS_URL",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"ratelimit.limit":         "RATE_LIMIT",
	"ratelimit.window":        "RATE_WINDOW",
	"admin.port":              "ADMIN_PORT",
}

// Load loads configuration from the .env file and environment variables.
func Load() (*Config, error) {
	// A missing .env is fine in prod; we fall back to OS-set env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("bot.mode", "polling")
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.webhook.port", 8443)
	v.SetDefault("caption.tag", "@SBRipssbot")
	v.SetDefault("delivery.pacing", "500ms")
	v.SetDefault("delivery.timeout", "0s")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.limit", 30)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("admin.port", 9090)

	authorized, err := ParseIDList(v.GetString("access.authorized_users"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTHORIZED_USERS: %w", err)
	}

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
		Bot: BotConfig{
			Token: v.GetString("bot.token"),
			Mode:  strings.ToLower(v.GetString("bot.mode")),
			Polling: PollingConfig{
				WorkerPoolSize: v.GetInt("bot.workers"),
			},
			Webhook: WebhookConfig{
				URL:        strings.TrimRight(v.GetString("bot.webhook.url"), "/"),
				ListenPort: v.GetInt("bot.webhook.port"),
			},
		},
		Access: AccessConfig{
			AuthorizedUsers: authorized,
			WorkingGroupID:  v.GetInt64("access.working_group_id"),
		},
		Caption: CaptionConfig{
			AttributionTag: v.GetString("caption.tag"),
		},
		Delivery: DeliveryConfig{
			PacingDelay: v.GetDuration("delivery.pacing"),
			Timeout:     v.GetDuration("delivery.timeout"),
		},
		Postgres: PostgresConfig{
			URL: v.GetString("postgres.url"),
		},
		Redis: RedisConfig{
			URL:        v.GetString("redis.url"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			RateLimit:  v.GetInt("ratelimit.limit"),
			RateWindow: v.GetDuration("ratelimit.window"),
		},
		Admin: AdminConfig{
			Port: v.GetInt("admin.port"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return errors.New("BOT_TOKEN is not set in environment or .env file")
	}

	switch c.Bot.Mode {
	case "polling":
	case "webhook":
		if c.Bot.Webhook.URL == "" {
			return errors.New("BOT_WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown BOT_MODE %q (want polling or webhook)", c.Bot.Mode)
	}

	if c.Bot.Polling.WorkerPoolSize <= 0 {
		return fmt.Errorf("BOT_WORKERS must be positive, got %d", c.Bot.Polling.WorkerPoolSize)
	}
	if strings.TrimSpace(c.Caption.AttributionTag) == "" {
		return errors.New("ATTRIBUTION_TAG must not be empty")
	}
	if c.Delivery.PacingDelay < 0 || c.Delivery.Timeout < 0 {
		return errors.New("delivery durations must not be negative")
	}
	if c.Redis.URL != "" && (c.Redis.RateLimit <= 0 || c.Redis.RateWindow <= 0) {
		return errors.New("RATE_LIMIT and RATE_WINDOW must be positive when REDIS_URL is set")
	}
	return nil
}

// ParseIDList parses a comma (or whitespace) separated list of Telegram ids.
func ParseIDList(raw string) ([]int64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})

	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", f, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
