package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/adapter/realtime"
	"github.com/polkiloo/catering/internal/adapter/webhook"
	"github.com/polkiloo/catering/internal/domain/repository"
	"github.com/polkiloo/catering/internal/usecase"
	"github.com/polkiloo/catering/internal/worker"
)

// Module provides the dispatcher as the use cases' event sink.
var Module = fx.Provide(newDispatcher, asEventSink)

type dispatcherParams struct {
	fx.In

	Notifications repository.NotificationRepository
	Broker        *realtime.Broker
	Notifier      webhook.Notifier
	Pool          *worker.Pool
	Logger        *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Notifications, p.Broker, p.Notifier, p.Pool, p.Logger)
}

func asEventSink(d *Dispatcher) usecase.EventSink {
	return d
}
