// Package inventory applies order quantities against per-item stock
// counts in the remote store. Decrements are best-effort: one item
// failing never aborts or rolls back the others.
package inventory

import (
	"context"
	"errors"

	"github.com/example/orderdesk/pkg/repository"
	"go.uber.org/zap"
)

// StockRepository is the remote per-user stock count store.
type StockRepository interface {
	ReadQuantity(ctx context.Context, userID, itemID string) (int, error)
	WriteQuantity(ctx context.Context, userID, itemID string, quantity int) error
}

type ItemQuantity struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// DecrementResult reports the fold over all items. Success is true iff
// no item failed; decrements already applied stay applied either way.
type DecrementResult struct {
	Success     bool     `json:"success"`
	FailedItems []string `json:"failed_items"`
}

type Service struct {
	stock  StockRepository
	logger *zap.Logger
}

func NewService(stock StockRepository, logger *zap.Logger) *Service {
	return &Service{stock: stock, logger: logger}
}

// DecreaseStock decrements each item independently. A missing stock
// document or a failed write records the item id and moves on; stock is
// clamped at zero rather than rejecting an over-sell.
func (s *Service) DecreaseStock(ctx context.Context, userID string, items []ItemQuantity) DecrementResult {
	var failed []string

	for _, item := range items {
		current, err := s.stock.ReadQuantity(ctx, userID, item.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("Stock record not found",
					zap.String("item_id", item.ItemID), zap.String("user_id", userID))
			} else {
				s.logger.Error("Failed to read stock",
					zap.String("item_id", item.ItemID), zap.Error(err))
			}
			failed = append(failed, item.ItemID)
			continue
		}

		newQty := current - item.Quantity
		if newQty < 0 {
			newQty = 0
		}

		if err := s.stock.WriteQuantity(ctx, userID, item.ItemID, newQty); err != nil {
			s.logger.Error("Failed to write stock",
				zap.String("item_id", item.ItemID), zap.Error(err))
			failed = append(failed, item.ItemID)
			continue
		}
	}

	return DecrementResult{
		Success:     len(failed) == 0,
		FailedItems: failed,
	}
}
