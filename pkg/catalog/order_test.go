package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/example/orderdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	items map[string]models.Item
}

func (f *fakeResolver) FindItems(ctx context.Context, itemIDs []string) (map[string]models.Item, error) {
	found := make(map[string]models.Item)
	for _, id := range itemIDs {
		if item, ok := f.items[id]; ok {
			found[id] = item
		}
	}
	return found, nil
}

func testResolver() *fakeResolver {
	return &fakeResolver{items: map[string]models.Item{
		"it-1": {ItemID: "it-1", SKU: "MUG-01", Name: "Ceramic Mug", Category: "Kitchen", Price: 250},
		"it-2": {ItemID: "it-2", SKU: "TEE-02", Name: "Logo Tee", Category: "Apparel", Price: 400},
	}}
}

func TestBuildOrderItemsSnapshots(t *testing.T) {
	items, err := BuildOrderItems(context.Background(), testResolver(), []Pick{
		{ItemID: "it-1", Quantity: 2},
		{ItemID: "it-2", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "MUG-01", items[0].SKU)
	assert.Equal(t, "Ceramic Mug", items[0].ItemName)
	assert.Equal(t, 250.0, items[0].Price)
	assert.Equal(t, 500.0, items[0].Total)
	assert.Equal(t, 400.0, items[1].Total)
}

func TestBuildOrderItemsUnknownSentinel(t *testing.T) {
	items, err := BuildOrderItems(context.Background(), testResolver(), []Pick{
		{ItemID: "discontinued", Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	line := items[0]
	assert.Equal(t, UnknownSKU, line.SKU)
	assert.Equal(t, UnknownCategory, line.Category)
	assert.Equal(t, UnknownName, line.ItemName)
	assert.Equal(t, 3, line.Quantity)
	assert.Zero(t, line.Price)
	assert.Zero(t, line.Total, "degraded line carries no value but the order survives")
}

func TestBuildDraftOrder(t *testing.T) {
	items, err := BuildOrderItems(context.Background(), testResolver(), []Pick{
		{ItemID: "it-1", Quantity: 2},
		{ItemID: "it-2", Quantity: 1},
	})
	require.NoError(t, err)

	customer := models.Customer{
		ID:             "cus-1",
		UserID:         "user-1",
		Name:           "Meera",
		WhatsappNumber: "+910000000001",
		RewardPoint:    30,
		CreatedAt:      time.Now(),
	}
	orderDate := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	draft := BuildDraftOrder(customer, orderDate, items)

	assert.Empty(t, draft.ID, "the remote repository assigns the id")
	assert.Equal(t, models.StatusProcessing, draft.Status)
	assert.Equal(t, models.PaymentPending, draft.PaymentStatus)
	assert.Nil(t, draft.Payment, "payment is absent until the first payment event")
	assert.Equal(t, 900.0, draft.TotalAmount, "order total equals the sum of line totals")
	assert.Equal(t, "cus-1", draft.CustomerID)
	assert.Equal(t, "Meera", draft.Customer.Name)
	assert.True(t, draft.Customer.CreatedAt.IsZero(), "embedded customer is a snapshot, not the document")
}
