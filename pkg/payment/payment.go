// Package payment holds the reconciliation logic for collecting a
// payment against an order: remaining-balance derivation, reward-point
// redemption and accrual, and the merge patch that records the result.
// Everything here is pure; persistence is the order store's business.
package payment

import (
	"errors"
	"math"
	"time"

	"github.com/example/orderdesk/pkg/models"
)

// ErrInvalidOrderState means the order has no payment.total_amount to
// reconcile against.
var ErrInvalidOrderState = errors.New("order has no payment total amount")

const (
	// Orders earn floor(totalAmount * rewardRate) in reward points.
	rewardRate = 0.10
	// Only orders at most this many whole days old earn points.
	rewardEligibilityDays = 7
)

// RemainingBalance derives what is still owed on the order. Redeeming
// applies the customer's full reward balance as a discount; both the
// discount and the result are clamped at zero, so the value is never
// negative.
func RemainingBalance(order *models.Order, redeemReward bool) float64 {
	discount := 0.0
	if redeemReward {
		discount = float64(order.Customer.RewardPoint)
	}
	afterDiscount := math.Max(order.TotalAmount-discount, 0)
	return math.Max(afterDiscount-order.TotalPaid(), 0)
}

// RewardPointsEarned computes the points a payment on this order accrues.
// Eligibility is a whole-day cutoff: exactly seven days old still earns,
// eight does not.
func RewardPointsEarned(order *models.Order, now time.Time) int {
	diffInDays := int(math.Floor(now.Sub(order.OrderDate).Hours() / 24))
	if diffInDays > rewardEligibilityDays {
		return 0
	}
	return int(math.Floor(order.TotalAmount * rewardRate))
}

// Result describes a settled payment. Patch carries exactly the fields
// the order store must merge; the rest is reporting.
type Result struct {
	Patch           models.OrderPatch
	AmountCollected float64
	NewTotalPaid    float64
	FullyPaid       bool
	RewardEarned    int
}

// CompletePayment settles the entire remaining balance in one
// transaction; there is no caller-supplied partial amount in this flow.
// Redemption consumes the whole prior reward balance, even the part the
// zero clamp left unused. The returned patch marks the order paid,
// accumulates total_paid, appends the installment, and sets the new
// reward balance.
func CompletePayment(order *models.Order, redeemReward bool, now time.Time) (Result, error) {
	if order.Payment == nil || order.Payment.TotalAmount <= 0 {
		return Result{}, ErrInvalidOrderState
	}

	remaining := RemainingBalance(order, redeemReward)
	newTotalPaid := order.TotalPaid() + remaining
	fullyPaid := newTotalPaid >= order.Payment.TotalAmount

	earned := RewardPointsEarned(order, now)
	carried := order.Customer.RewardPoint
	if redeemReward {
		carried = 0
	}
	newRewardBalance := carried + earned

	installments := make([]models.PartialPayment, 0, len(order.Payment.PartialPayments)+1)
	installments = append(installments, order.Payment.PartialPayments...)
	installments = append(installments, models.PartialPayment{Date: now, AmountPaid: remaining})

	paid := models.PaymentPaid
	totalAmount := order.Payment.TotalAmount

	return Result{
		Patch: models.OrderPatch{
			PaymentStatus: &paid,
			Payment: &models.PaymentPatch{
				TotalAmount:     &totalAmount,
				TotalPaid:       &newTotalPaid,
				PartialPayments: installments,
			},
			Customer: &models.CustomerPatch{
				RewardPoint: &newRewardBalance,
			},
		},
		AmountCollected: remaining,
		NewTotalPaid:    newTotalPaid,
		FullyPaid:       fullyPaid,
		RewardEarned:    earned,
	}, nil
}
