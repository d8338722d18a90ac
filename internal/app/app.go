package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/adapter/realtime"
	"github.com/polkiloo/catering/internal/config"
	"github.com/polkiloo/catering/internal/pkg/auth"
	"github.com/polkiloo/catering/internal/usecase"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newCateringFacade,
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Orders        *usecase.OrderUseCase
	Invoices      *usecase.InvoiceUseCase
	Ledger        *usecase.LedgerUseCase
	Notifications *usecase.NotificationUseCase
	Tokens        auth.Strategy
	Broker        *realtime.Broker
	Config        *config.Config
}

func newCateringFacade(p facadeParams) *CateringFacade {
	return NewCateringFacade(p.Orders, p.Invoices, p.Ledger, p.Notifications, p.Tokens, p.Broker, p.Config.FeedLimit)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting catering", slog.String("addr", p.Server.Addr))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("catering stopped")
			return nil
		},
	})
}
