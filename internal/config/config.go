package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	LogLevel    string `env:"LOG_LEVEL"`

	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	StatusWebhookURL string        `env:"STATUS_WEBHOOK_URL"`
	WebhookTimeout   time.Duration `env:"WEBHOOK_TIMEOUT"`
	WebhookRetries   int           `env:"WEBHOOK_RETRIES"`

	TokenSecret     string `env:"TOKEN_SECRET"`
	TokenSecretFile string `env:"TOKEN_SECRET_FILE"`

	DeliveryWorkers   int           `env:"DELIVERY_WORKERS"`
	DeliveryQueueSize int           `env:"DELIVERY_QUEUE_SIZE"`
	DeliveryTimeout   time.Duration `env:"DELIVERY_TIMEOUT"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"`

	FeedUserID string `env:"FEED_USER_ID"`
	FeedRole   string `env:"FEED_ROLE"`
	FeedLimit  int    `env:"FEED_LIMIT"`
}

const (
	defaultRunAddress        = ":8080"
	defaultLogLevel          = "info"
	defaultRedisAddress      = "localhost:6379"
	defaultTokenSecret       = "change-me-in-production"
	defaultWebhookTimeout    = 5 * time.Second
	defaultWebhookRetries    = 3
	defaultDeliveryWorkers   = 4
	defaultDeliveryQueueSize = 256
	defaultDeliveryTimeout   = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultFeedRole          = "any"
	defaultFeedLimit         = 10
)

// Load parses configuration from environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{
		RunAddress:        defaultRunAddress,
		LogLevel:          defaultLogLevel,
		RedisAddress:      defaultRedisAddress,
		TokenSecret:       defaultTokenSecret,
		WebhookTimeout:    defaultWebhookTimeout,
		WebhookRetries:    defaultWebhookRetries,
		DeliveryWorkers:   defaultDeliveryWorkers,
		DeliveryQueueSize: defaultDeliveryQueueSize,
		DeliveryTimeout:   defaultDeliveryTimeout,
		ShutdownTimeout:   defaultShutdownTimeout,
		FeedRole:          defaultFeedRole,
		FeedLimit:         defaultFeedLimit,
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("catering", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		webhookTimeoutStr  = cfg.WebhookTimeout.String()
		deliveryTimeoutStr = cfg.DeliveryTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for live notifications")
	fs.StringVar(&cfg.StatusWebhookURL, "webhook", cfg.StatusWebhookURL, "URL notified on every status change")
	fs.StringVar(&webhookTimeoutStr, "webhook-timeout", webhookTimeoutStr, "Timeout of one webhook attempt")
	fs.IntVar(&cfg.WebhookRetries, "webhook-retries", cfg.WebhookRetries, "Webhook retry attempts")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for verifying actor tokens")
	fs.IntVar(&cfg.DeliveryWorkers, "delivery-workers", cfg.DeliveryWorkers, "Number of concurrent delivery workers")
	fs.IntVar(&cfg.DeliveryQueueSize, "delivery-queue", cfg.DeliveryQueueSize, "Pending delivery jobs before new ones are dropped")
	fs.StringVar(&deliveryTimeoutStr, "delivery-timeout", deliveryTimeoutStr, "Timeout of one delivery job")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.FeedUserID, "feed-user", cfg.FeedUserID, "User whose notification feed is followed")
	fs.StringVar(&cfg.FeedRole, "feed-role", cfg.FeedRole, "Feed role filter: customer, owner or any")
	fs.IntVar(&cfg.FeedLimit, "feed-limit", cfg.FeedLimit, "Notifications shown by the feed")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.WebhookTimeout, err = time.ParseDuration(webhookTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid webhook timeout: %w", err)
	}

	if cfg.DeliveryTimeout, err = time.ParseDuration(deliveryTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid delivery timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenSecretFile != "" {
		content, err := os.ReadFile(cfg.TokenSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	cfg.normalize()

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func (c *Config) normalize() {
	if c.WebhookTimeout <= 0 {
		c.WebhookTimeout = defaultWebhookTimeout
	}
	if c.WebhookRetries < 0 {
		c.WebhookRetries = defaultWebhookRetries
	}
	if c.DeliveryWorkers <= 0 {
		c.DeliveryWorkers = defaultDeliveryWorkers
	}
	if c.DeliveryQueueSize <= 0 {
		c.DeliveryQueueSize = defaultDeliveryQueueSize
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = defaultDeliveryTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.FeedLimit <= 0 {
		c.FeedLimit = defaultFeedLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.FeedRole == "" {
		c.FeedRole = defaultFeedRole
	}
}

// FeedUser returns the user followed by the feed client.
func (c *Config) FeedUser() (uuid.UUID, error) {
	if c.FeedUserID == "" {
		return uuid.Nil, fmt.Errorf("feed user must be provided")
	}
	id, err := uuid.Parse(c.FeedUserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid feed user: %w", err)
	}
	return id, nil
}
