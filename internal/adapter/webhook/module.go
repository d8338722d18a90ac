package webhook

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

// Module exposes the status-change webhook notifier to fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	if p.Config.StatusWebhookURL == "" {
		p.Logger.Info("status webhook disabled")
		return NopNotifier{}, nil
	}
	return NewHTTPNotifier(p.Config.StatusWebhookURL, p.Config.WebhookTimeout, p.Config.WebhookRetries, p.Logger)
}
