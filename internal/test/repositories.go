package test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/catering/internal/domain/errors"
	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/domain/repository"
)

// MemoryStore keeps every repository in memory behind one mutex, applying the
// same optimistic status check as the database.
type MemoryStore struct {
	mu sync.Mutex

	restaurants   map[uuid.UUID]uuid.UUID
	orders        map[uuid.UUID]model.Order
	numbers       map[string]uuid.UUID
	history       map[uuid.UUID][]model.StatusChange
	invoices      map[uuid.UUID]model.Invoice
	invoiceOf     map[uuid.UUID]uuid.UUID
	notifications []model.Notification
	seq           int64
	clock         time.Time

	// Err, when set, is returned by every repository call.
	Err error
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		restaurants: make(map[uuid.UUID]uuid.UUID),
		orders:      make(map[uuid.UUID]model.Order),
		numbers:     make(map[string]uuid.UUID),
		history:     make(map[uuid.UUID][]model.StatusChange),
		invoices:    make(map[uuid.UUID]model.Invoice),
		invoiceOf:   make(map[uuid.UUID]uuid.UUID),
		clock:       time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// AddRestaurant registers a restaurant owned by owner and returns its id.
func (s *MemoryStore) AddRestaurant(owner uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.restaurants[id] = owner
	return id
}

// SetStatus overwrites the stored raw status without a ledger entry.
func (s *MemoryStore) SetStatus(orderID uuid.UUID, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[orderID]
	o.Status = status
	s.orders[orderID] = o
}

// HistoryOf returns a copy of the ledger of an order.
func (s *MemoryStore) HistoryOf(orderID uuid.UUID) []model.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history[orderID])
}

// InvoiceCount returns how many invoices were stored.
func (s *MemoryStore) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invoices)
}

// NotificationsOf returns every notification addressed to user, oldest first.
func (s *MemoryStore) NotificationsOf(user uuid.UUID) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID == user {
			out = append(out, n)
		}
	}
	return out
}

// tick returns a strictly increasing timestamp.
func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemoryStore) Orders() repository.OrderRepository               { return memoryOrders{s} }
func (s *MemoryStore) History() repository.HistoryRepository            { return memoryHistory{s} }
func (s *MemoryStore) Invoices() repository.InvoiceRepository           { return memoryInvoices{s} }
func (s *MemoryStore) Notifications() repository.NotificationRepository { return memoryNotifications{s} }

var _ repository.Factory = (*MemoryStore)(nil)

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(_ context.Context, order *model.Order, created model.StatusChange) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	owner, ok := s.restaurants[order.RestaurantID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if _, exists := s.numbers[order.Number]; exists {
		return domainErrors.ErrAlreadyExists
	}
	order.OwnerID = owner
	order.CreatedAt = s.tick()
	s.orders[order.ID] = *order
	s.numbers[order.Number] = order.ID

	created.OrderID = order.ID
	s.appendLocked(created)
	return nil
}

func (r memoryOrders) Get(_ context.Context, id uuid.UUID) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

func (r memoryOrders) List(_ context.Context, q model.OrderQuery) ([]model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Order
	for _, o := range s.orders {
		switch {
		case q.CustomerID != nil && o.CustomerID != *q.CustomerID,
			q.OwnerID != nil && o.OwnerID != *q.OwnerID,
			q.RestaurantID != nil && o.RestaurantID != *q.RestaurantID,
			len(q.Statuses) > 0 && !slices.Contains(q.Statuses, o.Status),
			q.Since != nil && o.CreatedAt.Before(*q.Since):
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

type memoryHistory struct{ s *MemoryStore }

func (r memoryHistory) Append(_ context.Context, change model.StatusChange) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if change.OldStatus == nil {
		return domainErrors.ErrIllegalTransition
	}
	return s.applyLocked(change)
}

func (r memoryHistory) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.StatusChange, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.history[orderID]), nil
}

func (s *MemoryStore) applyLocked(change model.StatusChange) error {
	o, ok := s.orders[change.OrderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if o.Status != *change.OldStatus {
		return domainErrors.ErrConflictingWrite
	}
	o.Status = change.NewStatus
	s.orders[o.ID] = o
	s.appendLocked(change)
	return nil
}

func (s *MemoryStore) appendLocked(change model.StatusChange) {
	s.seq++
	change.ID = s.seq
	change.ChangedAt = s.tick()
	s.history[change.OrderID] = append(s.history[change.OrderID], change)
}

type memoryInvoices struct{ s *MemoryStore }

func (r memoryInvoices) Create(_ context.Context, orderID uuid.UUID, total decimal.Decimal) (*model.Invoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, ok := s.orders[orderID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	if _, exists := s.invoiceOf[orderID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	inv := model.Invoice{ID: uuid.New(), OrderID: orderID, Total: total, CreatedAt: s.tick()}
	s.invoices[inv.ID] = inv
	s.invoiceOf[orderID] = inv.ID
	return &inv, nil
}

func (r memoryInvoices) GetByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	inv, ok := s.invoices[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &inv, nil
}

func (r memoryInvoices) GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.Invoice, error) {
	r.s.mu.Lock()
	id, ok := r.s.invoiceOf[orderID]
	r.s.mu.Unlock()
	if !ok {
		if r.s.Err != nil {
			return nil, r.s.Err
		}
		return nil, domainErrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r memoryInvoices) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Invoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Invoice
	for _, inv := range s.invoices {
		if s.orders[inv.OrderID].CustomerID == customerID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memoryInvoices) MarkPaid(_ context.Context, invoiceID uuid.UUID, change model.StatusChange) (*model.Invoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if inv.Paid {
		return nil, domainErrors.ErrAlreadyPaid
	}
	change.OrderID = inv.OrderID
	if err := s.applyLocked(change); err != nil {
		return nil, err
	}
	inv.Paid = true
	s.invoices[inv.ID] = inv
	return &inv, nil
}

type memoryNotifications struct{ s *MemoryStore }

func (r memoryNotifications) Create(_ context.Context, n *model.Notification) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = s.tick()
	n.Read = false
	s.notifications = append(s.notifications, *n)
	return nil
}

func (r memoryNotifications) ListByUser(_ context.Context, userID uuid.UUID, filter model.RoleFilter) ([]model.Notification, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID == userID && filter.Matches(n.Role) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memoryNotifications) UnreadCount(_ context.Context, userID uuid.UUID, filter model.RoleFilter) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && filter.Matches(n.Role) && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r memoryNotifications) MarkAllRead(_ context.Context, userID uuid.UUID, filter model.RoleFilter) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var updated int64
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.UserID == userID && filter.Matches(n.Role) && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}
