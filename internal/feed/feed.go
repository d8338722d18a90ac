// Package feed keeps one user's notification list and unread counter current
// by combining an initial fetch with live pushes.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

// DefaultLimit is the number of notifications shown by default.
const DefaultLimit = 10

// ErrStreamClosed is returned by Run when the live channel ends on its own.
var ErrStreamClosed = errors.New("live channel closed")

// Source delivers live pushes for a user until ctx is done.
type Source interface {
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan model.Notification, error)
}

// Store is the durable side of the feed.
type Store interface {
	List(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error)
}

// Snapshot is what a client renders.
type Snapshot struct {
	Items  []model.Notification
	Unread int
}

// Option customizes a Feed.
type Option func(*Feed)

// WithLimit bounds Items; non-positive values keep the default.
func WithLimit(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.limit = n
		}
	}
}

// WithLogger sets the feed logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feed) {
		if l != nil {
			f.logger = l
		}
	}
}

// OnChange registers fn to be called with a fresh snapshot after every change.
func OnChange(fn func(Snapshot)) Option {
	return func(f *Feed) { f.onChange = fn }
}

// Feed is the live notification list of one user under one role filter.
type Feed struct {
	userID uuid.UUID
	filter model.RoleFilter
	source Source
	store  Store
	limit  int
	logger *slog.Logger

	onChange func(Snapshot)

	mu     sync.Mutex
	items  []model.Notification
	seen   map[uuid.UUID]struct{}
	unread map[uuid.UUID]struct{}
}

// New constructs a Feed. An empty filter means any role.
func New(userID uuid.UUID, filter model.RoleFilter, source Source, store Store, opts ...Option) *Feed {
	if filter == "" {
		filter = model.FilterAny
	}
	f := &Feed{
		userID: userID,
		filter: filter,
		source: source,
		store:  store,
		limit:  DefaultLimit,
		logger: slog.Default(),
		seen:   make(map[uuid.UUID]struct{}),
		unread: make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run subscribes to live pushes first and only then performs the full fetch,
// so nothing inserted in between is missed. It applies pushes until ctx is
// done.
func (f *Feed) Run(ctx context.Context) error {
	pushes, err := f.source.Subscribe(ctx, f.userID)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := f.Refresh(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-pushes:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrStreamClosed
			}
			f.Apply(n)
		}
	}
}

// Refresh replaces the state with a full fetch from the store.
func (f *Feed) Refresh(ctx context.Context) error {
	rows, err := f.store.List(ctx, f.userID, f.filter)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}
	rows = slices.Clone(rows)
	slices.SortStableFunc(rows, newestFirst)

	f.mu.Lock()
	f.seen = make(map[uuid.UUID]struct{}, len(rows))
	f.unread = make(map[uuid.UUID]struct{})
	for _, n := range rows {
		f.seen[n.ID] = struct{}{}
		if !n.Read {
			f.unread[n.ID] = struct{}{}
		}
	}
	f.items = rows[:min(len(rows), f.limit)]
	f.mu.Unlock()

	f.changed()
	return nil
}

// Apply merges one push. Pushes for another user or role, and duplicates of
// rows already seen, are dropped. It reports whether the state changed.
func (f *Feed) Apply(n model.Notification) bool {
	if n.UserID != f.userID || !f.filter.Matches(n.Role) {
		return false
	}

	f.mu.Lock()
	if _, dup := f.seen[n.ID]; dup {
		f.mu.Unlock()
		f.logger.Debug("duplicate push dropped", slog.String("id", n.ID.String()))
		return false
	}
	f.seen[n.ID] = struct{}{}
	if !n.Read {
		f.unread[n.ID] = struct{}{}
	}
	pos, _ := slices.BinarySearchFunc(f.items, n, newestFirst)
	f.items = slices.Insert(f.items, pos, n)
	if len(f.items) > f.limit {
		f.items = f.items[:f.limit]
	}
	f.mu.Unlock()

	f.changed()
	return true
}

// MarkAllRead flags the user's notifications under the filter as read in the
// store, then locally. Only rows known before the store call are flipped: a
// push applied meanwhile may postdate the update and stays unread. On failure
// the local state is left untouched.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	f.mu.Lock()
	known := maps.Clone(f.seen)
	f.mu.Unlock()

	if _, err := f.store.MarkAllRead(ctx, f.userID, f.filter); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}

	f.mu.Lock()
	for i := range f.items {
		if _, ok := known[f.items[i].ID]; ok {
			f.items[i].Read = true
		}
	}
	for id := range known {
		delete(f.unread, id)
	}
	f.mu.Unlock()

	f.changed()
	return nil
}

// Items returns the newest notifications, at most the configured limit.
func (f *Feed) Items() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// Unread returns the number of unread notifications known to the feed.
func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.unread)
}

// Snapshot returns the items and unread counter taken together.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{Items: slices.Clone(f.items), Unread: len(f.unread)}
}

func (f *Feed) changed() {
	if f.onChange != nil {
		f.onChange(f.Snapshot())
	}
}

func newestFirst(a, b model.Notification) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}
