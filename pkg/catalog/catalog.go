// Package catalog serves item master data and materializes immutable
// order-line snapshots from it.
package catalog

import (
	"context"
	"fmt"

	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Sentinel values recorded when a picked item cannot be resolved. The
// order line is kept with zero price rather than failing the order.
const (
	UnknownSKU      = "Unknown"
	UnknownCategory = "Unknown"
	UnknownName     = "unknown"
)

// ItemResolver looks up catalog items by id.
type ItemResolver interface {
	FindItems(ctx context.Context, itemIDs []string) (map[string]models.Item, error)
}

type Catalog struct {
	db *gorm.DB
}

func New(cfg *config.MySQLConfig) (*Catalog, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := db.AutoMigrate(&models.Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) FindItems(ctx context.Context, itemIDs []string) (map[string]models.Item, error) {
	var items []models.Item
	if err := c.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}

	found := make(map[string]models.Item, len(items))
	for _, item := range items {
		found[item.ItemID] = item
	}
	return found, nil
}

func (c *Catalog) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.db.WithContext(ctx).Order("sku").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Pick is a requested line: catalog item id plus quantity.
type Pick struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// BuildOrderItems resolves picks into order-line snapshots. Prices,
// sku, category and name are captured at order time; an unresolvable
// item degrades to the zero-price Unknown sentinel line.
func BuildOrderItems(ctx context.Context, resolver ItemResolver, picks []Pick) ([]models.OrderItem, error) {
	ids := make([]string, 0, len(picks))
	for _, p := range picks {
		ids = append(ids, p.ItemID)
	}

	found, err := resolver.FindItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderItem, 0, len(picks))
	for _, p := range picks {
		item, ok := found[p.ItemID]
		if !ok {
			lines = append(lines, models.OrderItem{
				ItemID:   p.ItemID,
				ItemName: UnknownName,
				SKU:      UnknownSKU,
				Category: UnknownCategory,
				Quantity: p.Quantity,
				Price:    0,
				Total:    0,
			})
			continue
		}

		lines = append(lines, models.OrderItem{
			ItemID:   item.ItemID,
			ItemName: item.Name,
			SKU:      item.SKU,
			Category: item.Category,
			Quantity: p.Quantity,
			Price:    item.Price,
			Total:    item.Price * float64(p.Quantity),
		})
	}

	return lines, nil
}
