package realtime

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

// Module provides the Redis client and the live notification broker.
var Module = fx.Options(
	fx.Provide(newClient, newBroker),
	fx.Invoke(registerLifecycle),
)

func newClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

type brokerParams struct {
	fx.In

	Client *redis.Client
	Logger *slog.Logger
}

func newBroker(p brokerParams) *Broker {
	return NewBroker(p.Client, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unavailable, live pushes will fail until it recovers", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
