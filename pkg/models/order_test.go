package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatchDeepMerge(t *testing.T) {
	order := Order{
		ID:            "a",
		Status:        StatusProcessing,
		PaymentStatus: PaymentPending,
		TotalAmount:   800,
		Customer:      Customer{Name: "Devi", WhatsappNumber: "+911111111111", RewardPoint: 40},
		Payment: &Payment{
			TotalAmount: 800,
			TotalPaid:   200,
			PartialPayments: []PartialPayment{
				{Date: time.Now().Add(-time.Hour), AmountPaid: 200},
			},
		},
	}

	paid := PaymentPaid
	newTotal := 800.0
	points := 80
	order.ApplyPatch(OrderPatch{
		PaymentStatus: &paid,
		Payment:       &PaymentPatch{TotalPaid: &newTotal},
		Customer:      &CustomerPatch{RewardPoint: &points},
	})

	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, StatusProcessing, order.Status, "unpatched fields untouched")
	assert.Equal(t, 800.0, order.Payment.TotalPaid)
	assert.Equal(t, 800.0, order.Payment.TotalAmount)
	assert.Len(t, order.Payment.PartialPayments, 1, "nil installment patch leaves the sequence alone")
	assert.Equal(t, 80, order.Customer.RewardPoint)
	assert.Equal(t, "Devi", order.Customer.Name, "unpatched customer fields survive")
}

func TestApplyPatchCreatesPayment(t *testing.T) {
	order := Order{ID: "a"}

	amount := 300.0
	order.ApplyPatch(OrderPatch{Payment: &PaymentPatch{TotalAmount: &amount}})

	require.NotNil(t, order.Payment)
	assert.Equal(t, 300.0, order.Payment.TotalAmount)
}

func TestApplyPatchReplacesInstallments(t *testing.T) {
	order := Order{
		Payment: &Payment{
			PartialPayments: []PartialPayment{{AmountPaid: 100}},
		},
	}

	now := time.Now()
	order.ApplyPatch(OrderPatch{
		Payment: &PaymentPatch{
			PartialPayments: []PartialPayment{
				{AmountPaid: 100},
				{Date: now, AmountPaid: 250},
			},
		},
	})

	require.Len(t, order.Payment.PartialPayments, 2)
	assert.Equal(t, 250.0, order.Payment.PartialPayments[1].AmountPaid)
}

func TestTotalPaidAbsentPayment(t *testing.T) {
	order := Order{}
	assert.Zero(t, order.TotalPaid())
}

func TestCustomerSnapshot(t *testing.T) {
	c := Customer{
		ID:             "cus-1",
		UserID:         "user-1",
		Name:           "Devi",
		WhatsappNumber: "+911111111111",
		RewardPoint:    10,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	snap := c.Snapshot()
	assert.Equal(t, "cus-1", snap.ID)
	assert.Equal(t, "Devi", snap.Name)
	assert.Empty(t, snap.UserID)
	assert.True(t, snap.CreatedAt.IsZero())
}
