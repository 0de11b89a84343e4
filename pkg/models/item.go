package models

import (
	"time"
)

// Item is catalog master data, kept relational (MySQL) unlike the
// per-user order and inventory documents.
type Item struct {
	ItemID    string     `gorm:"primaryKey;type:varchar(36)" json:"item_id"`
	SKU       string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	Category  string     `gorm:"type:varchar(50)" json:"category"`
	Price     float64    `gorm:"type:decimal(10,2)" json:"price"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (Item) TableName() string {
	return "items"
}
