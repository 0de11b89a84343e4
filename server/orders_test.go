package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/inventory"
	"github.com/example/orderdesk/pkg/models"
	"github.com/example/orderdesk/pkg/repository"
	"github.com/example/orderdesk/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memOrderRemote struct {
	mu        sync.Mutex
	orders    map[string]models.Order
	nextID    int
	listDelay time.Duration
	listCalls int32
}

func (f *memOrderRemote) List(ctx context.Context, userID string) ([]models.Order, error) {
	atomic.AddInt32(&f.listCalls, 1)
	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *memOrderRemote) Create(ctx context.Context, userID string, order models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("ord-%d", f.nextID)
	order.ID = id
	order.UserID = userID
	f.orders[id] = order
	return id, nil
}

func (f *memOrderRemote) Patch(ctx context.Context, userID, orderID string, patch models.OrderPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.ApplyPatch(patch)
	f.orders[orderID] = o
	return nil
}

type memCustomerRemote struct {
	customers map[string]models.Customer
}

func (f *memCustomerRemote) List(ctx context.Context, userID string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *memCustomerRemote) Get(ctx context.Context, userID, customerID string) (*models.Customer, error) {
	c, ok := f.customers[customerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *memCustomerRemote) Create(ctx context.Context, userID string, customer models.Customer) (string, error) {
	customer.ID = fmt.Sprintf("cus-%d", len(f.customers)+1)
	f.customers[customer.ID] = customer
	return customer.ID, nil
}

func (f *memCustomerRemote) Update(ctx context.Context, userID, customerID string, patch models.CustomerPatch) error {
	return nil
}

func (f *memCustomerRemote) Delete(ctx context.Context, userID, customerID string) error {
	delete(f.customers, customerID)
	return nil
}

type noopCache struct{}

func (noopCache) CacheCustomer(ctx context.Context, userID string, customer *models.Customer) error {
	return nil
}

func (noopCache) GetCustomerCache(ctx context.Context, userID, customerID string) (*models.Customer, error) {
	return nil, errors.New("cache miss")
}

func (noopCache) InvalidateCustomer(ctx context.Context, userID, customerID string) error {
	return nil
}

type memStock struct {
	mu         sync.Mutex
	quantities map[string]int
}

func (f *memStock) ReadQuantity(ctx context.Context, userID, itemID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.quantities[itemID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return qty, nil
}

func (f *memStock) WriteQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities[itemID] = quantity
	return nil
}

func (f *memStock) quantity(itemID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantities[itemID]
}

type memCatalog struct {
	items map[string]models.Item
}

func (f *memCatalog) FindItems(ctx context.Context, itemIDs []string) (map[string]models.Item, error) {
	found := make(map[string]models.Item)
	for _, id := range itemIDs {
		if item, ok := f.items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func (f *memCatalog) ListItems(ctx context.Context) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

type serverFixture struct {
	orders *memOrderRemote
	stock  *memStock
	srv    *Server
}

func newServerFixture() *serverFixture {
	orders := &memOrderRemote{orders: map[string]models.Order{}}
	customers := &memCustomerRemote{customers: map[string]models.Customer{
		"cus-1": {ID: "cus-1", Name: "Meera", WhatsappNumber: "+910000000001", RewardPoint: 30},
	}}
	stock := &memStock{quantities: map[string]int{"it-1": 10, "it-2": 5}}
	cat := &memCatalog{items: map[string]models.Item{
		"it-1": {ItemID: "it-1", SKU: "MUG-01", Name: "Ceramic Mug", Category: "Kitchen", Price: 250},
		"it-2": {ItemID: "it-2", SKU: "TEE-02", Name: "Logo Tee", Category: "Apparel", Price: 400},
	}}

	sessions := NewSessionManager(orders, customers, noopCache{}, store.Optimistic, zap.NewNop())
	inv := inventory.NewService(stock, zap.NewNop())
	srv := New(&config.Config{}, zap.NewNop(), sessions, inv, cat, nil)
	srv.SetupRoutes()

	return &serverFixture{orders: orders, stock: stock, srv: srv}
}

func doRequest(t *testing.T, srv *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestCollectPaymentAfterEstablishingPaymentTotal(t *testing.T) {
	f := newServerFixture()

	rec := doRequest(t, f.srv, http.MethodPost, "/api/v1/users/u1/orders", map[string]interface{}{
		"customer_id": "cus-1",
		"order_date":  time.Now().UTC().Format(time.RFC3339),
		"items": []map[string]interface{}{
			{"item_id": "it-1", "quantity": 2},
			{"item_id": "it-2", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    string       `json:"id"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 900.0, created.Order.TotalAmount)
	assert.Nil(t, created.Order.Payment, "payment sub-record absent on a fresh order")

	base := "/api/v1/users/u1/orders/" + created.ID

	// Not collectable until payment.total_amount is established.
	rec = doRequest(t, f.srv, http.MethodPost, base+"/collect-payment", map[string]interface{}{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, f.srv, http.MethodPatch, base, map[string]interface{}{
		"payment": map[string]interface{}{"total_amount": 900},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var patched models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.NotNil(t, patched.Payment)
	assert.Equal(t, 900.0, patched.Payment.TotalAmount)

	rec = doRequest(t, f.srv, http.MethodPost, base+"/collect-payment", map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		AmountCollected float64 `json:"amount_collected"`
		TotalPaid       float64 `json:"total_paid"`
		FullyPaid       bool    `json:"fully_paid"`
		RewardEarned    int     `json:"reward_earned"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 900.0, result.AmountCollected)
	assert.Equal(t, 900.0, result.TotalPaid)
	assert.True(t, result.FullyPaid)
	assert.Equal(t, 90, result.RewardEarned)

	assert.Equal(t, 8, f.stock.quantity("it-1"))
	assert.Equal(t, 4, f.stock.quantity("it-2"))
}

func TestUpdateOrderUnknownID(t *testing.T) {
	f := newServerFixture()

	rec := doRequest(t, f.srv, http.MethodPatch, "/api/v1/users/u1/orders/missing", map[string]interface{}{
		"payment": map[string]interface{}{"total_amount": 100},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
