package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/adapter/realtime"
	"github.com/polkiloo/catering/internal/adapter/webhook"
	"github.com/polkiloo/catering/internal/app"
	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/logger"
	"github.com/polkiloo/catering/internal/notify"
	"github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/server/http/handlers"
	"github.com/polkiloo/catering/internal/server/http/router"
	"github.com/polkiloo/catering/internal/storage/postgres"
	"github.com/polkiloo/catering/internal/usecase"
	"github.com/polkiloo/catering/internal/worker"
)

// Module assembles the catering service graph. opts are appended last so
// tests can replace any node.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		realtime.Module,
		webhook.Module,
		worker.Module,
		usecase.Module,
		notify.Module,
		auth.Module,
		fx.Provide(func(f *app.CateringFacade) handlers.CateringFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
