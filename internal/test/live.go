package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

// LiveSourceStub is an in-process stand-in for the Redis broker.
type LiveSourceStub struct {
	mu   sync.Mutex
	subs map[uuid.UUID][]chan model.Notification

	// Err, when set, fails every Subscribe.
	Err error
}

// NewLiveSourceStub constructs an empty broker stub.
func NewLiveSourceStub() *LiveSourceStub {
	return &LiveSourceStub{subs: make(map[uuid.UUID][]chan model.Notification)}
}

// Subscribe registers a buffered channel for userID.
func (s *LiveSourceStub) Subscribe(_ context.Context, userID uuid.UUID) (<-chan model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ch := make(chan model.Notification, 16)
	s.subs[userID] = append(s.subs[userID], ch)
	return ch, nil
}

// Push hands n to every subscriber of its user, dropping it for full ones.
func (s *LiveSourceStub) Push(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[n.UserID] {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribers returns how many subscriptions userID has.
func (s *LiveSourceStub) Subscribers(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[userID])
}
