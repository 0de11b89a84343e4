package server

import (
	"context"
	"sync"

	"github.com/example/orderdesk/pkg/store"
	"go.uber.org/zap"
)

// Session bundles the per-user caches. Orders and customers are loaded
// once when the session is first touched and served from memory after
// that.
type Session struct {
	Orders    *store.OrderStore
	Customers *store.CustomerStore

	loadOnce sync.Once
}

// SessionManager hands out one Session per user id.
type SessionManager struct {
	mu        sync.Mutex
	orders    store.OrderRemote
	customers store.CustomerRemote
	cache     store.CustomerCache
	mode      store.ConsistencyMode
	logger    *zap.Logger
	sessions  map[string]*Session
}

func NewSessionManager(orders store.OrderRemote, customers store.CustomerRemote, cache store.CustomerCache, mode store.ConsistencyMode, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		orders:    orders,
		customers: customers,
		cache:     cache,
		mode:      mode,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the cached session for the user, creating and loading
// it on first use. Every caller funnels through the same load gate, so
// a request arriving while the first load is still in flight waits for
// it instead of reading a half-filled cache. Load failures degrade to
// an empty cache; the session stays usable and the next explicit reload
// can repopulate it.
func (m *SessionManager) Session(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{
			Orders:    store.NewOrderStore(m.orders, m.logger, m.mode),
			Customers: store.NewCustomerStore(m.customers, m.cache, m.logger),
		}
		m.sessions[userID] = sess
	}
	m.mu.Unlock()

	sess.loadOnce.Do(func() {
		if err := sess.Orders.Load(ctx, userID); err != nil {
			m.logger.Warn("Session started with empty order cache",
				zap.String("user_id", userID), zap.Error(err))
		}
		if err := sess.Customers.Load(ctx, userID); err != nil {
			m.logger.Warn("Session started with empty customer cache",
				zap.String("user_id", userID), zap.Error(err))
		}
	})

	return sess
}

// Reload refreshes both caches from the remote store.
func (m *SessionManager) Reload(ctx context.Context, userID string) (*Session, error) {
	sess := m.Session(ctx, userID)
	if err := sess.Orders.Load(ctx, userID); err != nil {
		return sess, err
	}
	if err := sess.Customers.Load(ctx, userID); err != nil {
		return sess, err
	}
	return sess, nil
}
