// Package realtime carries notification pushes over Redis pub/sub, one
// channel per recipient user.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/catering/internal/domain/model"
)

const topicPrefix = "catering:notifications:"

const subscriberBuffer = 16

// Topic returns the channel the notifications of userID are pushed to.
func Topic(userID uuid.UUID) string {
	return topicPrefix + userID.String()
}

type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Broker publishes and subscribes to live notification channels.
type Broker struct {
	client redisClient
	logger *slog.Logger
}

// NewBroker wraps a Redis client.
func NewBroker(client redisClient, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{client: client, logger: logger}
}

// message is the JSON payload of one push.
type message struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Role      string     `json:"role"`
	Event     string     `json:"event,omitempty"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	Read      bool       `json:"is_read"`
}

func encode(n model.Notification) ([]byte, error) {
	return json.Marshal(message{
		ID:        n.ID,
		UserID:    n.UserID,
		OrderID:   n.OrderID,
		Role:      string(n.Role),
		Event:     string(n.Event),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		Read:      n.Read,
	})
}

func decode(payload []byte) (model.Notification, error) {
	var m message
	if err := json.Unmarshal(payload, &m); err != nil {
		return model.Notification{}, err
	}
	if m.ID == uuid.Nil {
		return model.Notification{}, fmt.Errorf("notification id is missing")
	}
	return model.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		OrderID:   m.OrderID,
		Role:      model.Role(m.Role),
		Event:     model.EventTag(m.Event),
		Title:     m.Title,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
		Read:      m.Read,
	}, nil
}

// Publish pushes n to the channel of its recipient.
func (b *Broker) Publish(ctx context.Context, n model.Notification) error {
	payload, err := encode(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := b.client.Publish(ctx, Topic(n.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", Topic(n.UserID), err)
	}
	return nil
}

// Subscribe confirms a subscription to the channel of userID and streams its
// pushes until ctx is done, then closes the returned channel. Malformed
// payloads are logged and skipped.
func (b *Broker) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan model.Notification, error) {
	topic := Topic(userID)
	pubsub := b.client.Subscribe(ctx, topic)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	out := make(chan model.Notification, subscriberBuffer)
	go b.forward(ctx, pubsub, out)
	return out, nil
}

func (b *Broker) forward(ctx context.Context, pubsub *redis.PubSub, out chan<- model.Notification) {
	defer close(out)
	defer pubsub.Close()

	in := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			n, err := decode([]byte(msg.Payload))
			if err != nil {
				b.logger.Warn("skip malformed push", slog.String("channel", msg.Channel), slog.String("error", err.Error()))
				continue
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}
}
