package catalog

import (
	"time"

	"github.com/example/orderdesk/pkg/models"
)

// BuildDraftOrder assembles a new order draft: no id yet (the remote
// repository assigns one), status processing, payment pending, payment
// sub-record absent until the first payment event. The order total is
// the sum of the line totals.
func BuildDraftOrder(customer models.Customer, orderDate time.Time, items []models.OrderItem) models.Order {
	var total float64
	for _, item := range items {
		total += item.Total
	}

	return models.Order{
		CustomerID:    customer.ID,
		Status:        models.StatusProcessing,
		PaymentStatus: models.PaymentPending,
		OrderDate:     orderDate,
		TotalAmount:   total,
		Items:         items,
		Customer:      customer.Snapshot(),
	}
}
