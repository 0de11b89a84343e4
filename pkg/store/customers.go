package store

import (
	"context"
	"sync"

	"github.com/example/orderdesk/pkg/models"
	"go.uber.org/zap"
)

type CustomerRemote interface {
	List(ctx context.Context, userID string) ([]models.Customer, error)
	Get(ctx context.Context, userID, customerID string) (*models.Customer, error)
	Create(ctx context.Context, userID string, customer models.Customer) (string, error)
	Update(ctx context.Context, userID, customerID string, patch models.CustomerPatch) error
	Delete(ctx context.Context, userID, customerID string) error
}

// CustomerCache is the short-lived snapshot cache in front of the
// remote repository (redis in production).
type CustomerCache interface {
	CacheCustomer(ctx context.Context, userID string, customer *models.Customer) error
	GetCustomerCache(ctx context.Context, userID, customerID string) (*models.Customer, error)
	InvalidateCustomer(ctx context.Context, userID, customerID string) error
}

// CustomerStore mirrors the customer profiles for one session. Unlike
// orders, customer writes are confirmed: the local set only changes
// after the remote write succeeds. The mutex guards the local set;
// remote and cache calls happen outside it.
type CustomerStore struct {
	mu        sync.Mutex
	remote    CustomerRemote
	cache     CustomerCache
	logger    *zap.Logger
	customers []models.Customer
	loading   bool
}

func NewCustomerStore(remote CustomerRemote, cache CustomerCache, logger *zap.Logger) *CustomerStore {
	return &CustomerStore{
		remote: remote,
		cache:  cache,
		logger: logger,
	}
}

func (s *CustomerStore) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	customers, err := s.remote.List(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("Failed to load customers", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	s.customers = customers
	return nil
}

func (s *CustomerStore) Add(ctx context.Context, userID string, customer models.Customer) (string, error) {
	id, err := s.remote.Create(ctx, userID, customer)
	if err != nil {
		return "", err
	}
	customer.ID = id
	customer.UserID = userID

	s.mu.Lock()
	s.customers = append(s.customers, customer)
	s.mu.Unlock()

	return id, nil
}

func (s *CustomerStore) Update(ctx context.Context, userID, customerID string, patch models.CustomerPatch) error {
	if err := s.remote.Update(ctx, userID, customerID, patch); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.customers {
		if s.customers[i].ID == customerID {
			if patch.Name != nil {
				s.customers[i].Name = *patch.Name
			}
			if patch.WhatsappNumber != nil {
				s.customers[i].WhatsappNumber = *patch.WhatsappNumber
			}
			if patch.RewardPoint != nil {
				s.customers[i].RewardPoint = *patch.RewardPoint
			}
			break
		}
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.InvalidateCustomer(ctx, userID, customerID); err != nil {
			s.logger.Warn("Failed to invalidate customer cache", zap.String("customer_id", customerID), zap.Error(err))
		}
	}
	return nil
}

func (s *CustomerStore) Delete(ctx context.Context, userID, customerID string) error {
	if err := s.remote.Delete(ctx, userID, customerID); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.customers[:0]
	for _, c := range s.customers {
		if c.ID != customerID {
			kept = append(kept, c)
		}
	}
	s.customers = kept
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.InvalidateCustomer(ctx, userID, customerID); err != nil {
			s.logger.Warn("Failed to invalidate customer cache", zap.String("customer_id", customerID), zap.Error(err))
		}
	}
	return nil
}

// GetByID serves from the local set, then the snapshot cache, then the
// remote repository (caching the result on the way back).
func (s *CustomerStore) GetByID(ctx context.Context, userID, customerID string) (*models.Customer, error) {
	s.mu.Lock()
	for i := range s.customers {
		if s.customers[i].ID == customerID {
			c := s.customers[i]
			s.mu.Unlock()
			return &c, nil
		}
	}
	s.mu.Unlock()

	if s.cache != nil {
		if cached, err := s.cache.GetCustomerCache(ctx, userID, customerID); err == nil {
			return cached, nil
		}
	}

	customer, err := s.remote.Get(ctx, userID, customerID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.CacheCustomer(ctx, userID, customer); err != nil {
			s.logger.Warn("Failed to cache customer", zap.String("customer_id", customerID), zap.Error(err))
		}
	}
	return customer, nil
}

func (s *CustomerStore) All() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}
