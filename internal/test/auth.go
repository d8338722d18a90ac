package test

import (
	"github.com/polkiloo/catering/internal/domain/model"
	pkgAuth "github.com/polkiloo/catering/internal/pkg/auth"
)

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(model.Actor) (string, error)
	ParseFn func(string) (model.Actor, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(actor model.Actor) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(actor)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return model.Actor{}, pkgAuth.ErrInvalidToken
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// TokenParserStub implements middleware token parsing contract.
type TokenParserStub struct {
	Actor   model.Actor
	Err     error
	ParseFn func(string) (model.Actor, error)
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return model.Actor{}, s.Err
	}
	return s.Actor, nil
}

var _ pkgAuth.Strategy = StrategyStub{}
