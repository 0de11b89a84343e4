package models

import "time"

// Customer doubles as a standalone profile document and as the snapshot
// embedded inside an order. The embedded copy is by value: later profile
// edits do not rewrite historical orders.
type Customer struct {
	ID             string    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name           string    `bson:"name" json:"name"`
	WhatsappNumber string    `bson:"whatsapp_number" json:"whatsapp_number"`
	RewardPoint    int       `bson:"reward_point" json:"reward_point"`
	CreatedAt      time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Snapshot strips the document bookkeeping fields, leaving only what an
// order embeds.
func (c Customer) Snapshot() Customer {
	return Customer{
		ID:             c.ID,
		Name:           c.Name,
		WhatsappNumber: c.WhatsappNumber,
		RewardPoint:    c.RewardPoint,
	}
}
