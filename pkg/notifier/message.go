// Package notifier implements the WhatsApp messaging boundary: the
// notification HTTP service, the sender behind it, and the client the
// dashboard uses to reach it.
package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/orderdesk/pkg/models"
)

// ErrIncompleteBody means one of the message body lines is empty.
var ErrIncompleteBody = errors.New("message body is missing some details")

// SendRequest is the order-received contract: a phone number plus the
// prebuilt message body lines.
type SendRequest struct {
	PhoneNumber string   `json:"phoneNumber"`
	MessageBody []string `json:"messageBody"`
}

// DeliveryRequest is the out-for-delivery contract.
type DeliveryRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	CustomerName   string `json:"customerName"`
	DeliveryWindow string `json:"deliveryWindow"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OrderReceivedBody builds the order-received message lines: customer
// name, order id, order date, and a "- qty × name" summary of the
// items.
func OrderReceivedBody(customerName, orderID string, orderDate time.Time, items []models.OrderItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %d × %s", item.Quantity, item.ItemName))
	}

	return []string{
		customerName,
		orderID,
		orderDate.Format("Mon Jan 02 2006"),
		strings.Join(lines, ", "),
	}
}

// ValidateBody rejects a body with any missing detail before it goes
// out the door.
func ValidateBody(body []string) error {
	if len(body) == 0 {
		return ErrIncompleteBody
	}
	for _, line := range body {
		if line == "" {
			return ErrIncompleteBody
		}
	}
	return nil
}
