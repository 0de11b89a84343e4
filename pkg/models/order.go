package models

import (
	"time"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID            string      `bson:"_id,omitempty" json:"id"`
	UserID        string      `bson:"user_id" json:"user_id"`
	CustomerID    string      `bson:"customer_id" json:"customer_id"`
	Status        string      `bson:"status" json:"status"`
	PaymentStatus string      `bson:"payment_status" json:"payment_status"`
	OrderDate     time.Time   `bson:"order_date" json:"order_date"`
	TotalAmount   float64     `bson:"total_amount" json:"total_amount"`
	Items         []OrderItem `bson:"items" json:"items"`
	Customer      Customer    `bson:"customer" json:"customer"`
	Payment       *Payment    `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`
}

// OrderItem is an immutable snapshot of a catalog item at order time.
// Later catalog edits do not change historical orders.
type OrderItem struct {
	ItemID   string  `bson:"item_id" json:"item_id"`
	ItemName string  `bson:"item_name" json:"item_name"`
	SKU      string  `bson:"sku" json:"sku"`
	Category string  `bson:"category" json:"category"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
	Total    float64 `bson:"total" json:"total"`
}

type Payment struct {
	TotalAmount     float64          `bson:"total_amount" json:"total_amount"`
	TotalPaid       float64          `bson:"total_paid" json:"total_paid"`
	PartialPayments []PartialPayment `bson:"partial_payments" json:"partial_payments"`
}

type PartialPayment struct {
	Date       time.Time `bson:"date" json:"date"`
	AmountPaid float64   `bson:"amount_paid" json:"amount_paid"`
}

// TotalPaid reads payment.totalPaid, treating an absent payment as zero.
func (o *Order) TotalPaid() float64 {
	if o.Payment == nil {
		return 0
	}
	return o.Payment.TotalPaid
}

// OrderPatch is a partial update of an order. Nil fields are left
// unchanged; Payment and Customer are merged field-by-field rather than
// replaced wholesale.
type OrderPatch struct {
	Status        *string        `json:"status,omitempty"`
	PaymentStatus *string        `json:"payment_status,omitempty"`
	TotalAmount   *float64       `json:"total_amount,omitempty"`
	Payment       *PaymentPatch  `json:"payment,omitempty"`
	Customer      *CustomerPatch `json:"customer,omitempty"`
}

type PaymentPatch struct {
	TotalAmount *float64 `json:"total_amount,omitempty"`
	TotalPaid   *float64 `json:"total_paid,omitempty"`
	// PartialPayments replaces the whole sequence when non-nil.
	PartialPayments []PartialPayment `json:"partial_payments,omitempty"`
}

type CustomerPatch struct {
	Name           *string `json:"name,omitempty"`
	WhatsappNumber *string `json:"whatsapp_number,omitempty"`
	RewardPoint    *int    `json:"reward_point,omitempty"`
}

// ApplyPatch merges a partial update into the order. A patch that only
// sets payment.total_paid must not erase payment.partial_payments.
func (o *Order) ApplyPatch(p OrderPatch) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.TotalAmount != nil {
		o.TotalAmount = *p.TotalAmount
	}
	if p.Payment != nil {
		if o.Payment == nil {
			o.Payment = &Payment{}
		}
		if p.Payment.TotalAmount != nil {
			o.Payment.TotalAmount = *p.Payment.TotalAmount
		}
		if p.Payment.TotalPaid != nil {
			o.Payment.TotalPaid = *p.Payment.TotalPaid
		}
		if p.Payment.PartialPayments != nil {
			o.Payment.PartialPayments = p.Payment.PartialPayments
		}
	}
	if p.Customer != nil {
		if p.Customer.Name != nil {
			o.Customer.Name = *p.Customer.Name
		}
		if p.Customer.WhatsappNumber != nil {
			o.Customer.WhatsappNumber = *p.Customer.WhatsappNumber
		}
		if p.Customer.RewardPoint != nil {
			o.Customer.RewardPoint = *p.Customer.RewardPoint
		}
	}
}
