// Command catering-feed follows one user's notification feed in the terminal.
// Typing "r" and enter marks the shown notifications as read.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/catering/internal/adapter/realtime"
	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/feed"
	"github.com/polkiloo/catering/internal/logger"
	"github.com/polkiloo/catering/internal/storage/postgres"
	"github.com/polkiloo/catering/internal/usecase"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "catering-feed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewWithWriter(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	userID, err := cfg.FeedUser()
	if err != nil {
		return err
	}
	filter, err := model.ParseRoleFilter(cfg.FeedRole)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := postgres.Connect(ctx, cfg.DatabaseURI, log)
	if err != nil {
		return err
	}
	defer storage.Close()
	if err := storage.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	out := newRenderer(os.Stdout)
	fd := feed.New(userID, filter,
		realtime.NewBroker(client, log),
		usecase.NewNotificationUseCase(storage.Notifications()),
		feed.WithLimit(cfg.FeedLimit),
		feed.WithLogger(log),
		feed.OnChange(out.Render),
	)

	commands := make(chan string)
	go readCommands(os.Stdin, commands)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fd.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case cmd, ok := <-commands:
				if !ok {
					<-ctx.Done()
					return nil
				}
				if cmd != "r" {
					continue
				}
				if err := fd.MarkAllRead(ctx); err != nil {
					log.Error("mark all read failed", slog.String("error", err.Error()))
				}
			}
		}
	})

	log.Info("following feed", slog.String("user_id", userID.String()), slog.String("role", string(filter)))
	return g.Wait()
}

// readCommands forwards trimmed input lines until r is exhausted.
func readCommands(r io.Reader, commands chan<- string) {
	defer close(commands)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		commands <- strings.ToLower(strings.TrimSpace(scanner.Text()))
	}
}
