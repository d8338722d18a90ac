package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/catering/internal/config"
)

// Module provides the actor token strategy via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.TokenSecret, Options{})
}
