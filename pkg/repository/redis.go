package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/models"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func customerKey(userID, customerID string) string {
	return fmt.Sprintf("customer:%s:%s", userID, customerID)
}

// CacheCustomer keeps a short-lived customer snapshot so order
// materialization does not hit the document store for every lookup.
func (r *RedisRepository) CacheCustomer(ctx context.Context, userID string, customer *models.Customer) error {
	return r.SetJSON(ctx, customerKey(userID, customer.ID), customer, 30*time.Minute)
}

func (r *RedisRepository) GetCustomerCache(ctx context.Context, userID, customerID string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.GetJSON(ctx, customerKey(userID, customerID), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// InvalidateCustomer drops the cached snapshot after a profile update
// or deletion.
func (r *RedisRepository) InvalidateCustomer(ctx context.Context, userID, customerID string) error {
	return r.Del(ctx, customerKey(userID, customerID))
}
