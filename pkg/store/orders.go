// Package store holds the session-local caches that mirror the remote
// document store. Each store is an explicit state container constructed
// per session, never a package-level singleton.
package store

import (
	"context"
	"sync"

	"github.com/example/orderdesk/pkg/models"
	"go.uber.org/zap"
)

// OrderRemote is the remote order repository the cache reconciles
// against.
type OrderRemote interface {
	List(ctx context.Context, userID string) ([]models.Order, error)
	Create(ctx context.Context, userID string, order models.Order) (string, error)
	Patch(ctx context.Context, userID, orderID string, patch models.OrderPatch) error
}

// ConsistencyMode controls how Update treats the remote write.
type ConsistencyMode string

const (
	// Optimistic applies the local merge first and issues the remote
	// write afterward; a remote failure is logged and never rolled back.
	Optimistic ConsistencyMode = "optimistic"
	// Confirmed requires the remote write to succeed before the local
	// set is touched.
	Confirmed ConsistencyMode = "confirmed"
)

// ParseConsistencyMode maps the config string onto a mode, defaulting
// to optimistic to match the historical behavior.
func ParseConsistencyMode(s string) ConsistencyMode {
	if ConsistencyMode(s) == Confirmed {
		return Confirmed
	}
	return Optimistic
}

// OrderStore is the in-process source of truth for the orders visible
// to one user session. Reads are served synchronously from memory;
// writes reconcile with the remote repository per the consistency mode.
type OrderStore struct {
	mu      sync.Mutex
	remote  OrderRemote
	logger  *zap.Logger
	mode    ConsistencyMode
	orders  []models.Order
	loading bool
}

func NewOrderStore(remote OrderRemote, logger *zap.Logger, mode ConsistencyMode) *OrderStore {
	return &OrderStore{
		remote: remote,
		logger: logger,
		mode:   mode,
	}
}

// Load replaces the entire local set with the remote snapshot. On
// remote failure the cache is left empty; no partial merge is
// attempted.
func (s *OrderStore) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	orders, err := s.remote.List(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("Failed to load orders", zap.String("user_id", userID), zap.Error(err))
		s.orders = nil
		return err
	}
	s.orders = orders
	return nil
}

func (s *OrderStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Add sends the draft to the remote repository, which assigns the id.
// The local set only gains the order after the remote create succeeds,
// so a failed creation leaves no phantom order behind.
func (s *OrderStore) Add(ctx context.Context, userID string, draft models.Order) (string, error) {
	id, err := s.remote.Create(ctx, userID, draft)
	if err != nil {
		s.logger.Error("Failed to add order", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	draft.ID = id
	draft.UserID = userID

	s.mu.Lock()
	s.orders = append(s.orders, draft)
	s.mu.Unlock()

	return id, nil
}

// Update merges partial fields into the cached order and persists them.
// Payment and customer sub-objects are merged field-by-field, so a
// patch that only sets payment.total_paid keeps the recorded
// installments. An id not present locally leaves the local set
// untouched; the remote write is still issued.
func (s *OrderStore) Update(ctx context.Context, userID, orderID string, patch models.OrderPatch) error {
	if s.mode == Confirmed {
		if err := s.remote.Patch(ctx, userID, orderID, patch); err != nil {
			s.logger.Error("Failed to update order",
				zap.String("order_id", orderID), zap.Error(err))
			return err
		}
		s.applyLocal(orderID, patch)
		return nil
	}

	s.applyLocal(orderID, patch)

	if err := s.remote.Patch(ctx, userID, orderID, patch); err != nil {
		// Local state already advanced and stays that way.
		s.logger.Error("Failed to persist order update, local state kept",
			zap.String("order_id", orderID), zap.Error(err))
	}
	return nil
}

func (s *OrderStore) applyLocal(orderID string, patch models.OrderPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].ApplyPatch(patch)
			return
		}
	}
}

// StatusChange overwrites the cached status only. Callers that need
// persistence follow up with Update.
func (s *OrderStore) StatusChange(orderID, newStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = newStatus
			return
		}
	}
}

// OrdersByCustomer filters the local set; no remote round trip.
func (s *OrderStore) OrdersByCustomer(customerID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

func (s *OrderStore) Get(orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

func (s *OrderStore) All() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
