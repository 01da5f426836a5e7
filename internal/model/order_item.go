package model

import "time"

type OrderItem struct {
	ID         string     `db:"id" json:"id"`
	StoreID    string     `db:"store_id" json:"store_id"`
	EAN        string     `db:"ean" json:"ean"`
	Qty        int        `db:"qty" json:"qty"`
	CategoryID string     `db:"category_id" json:"category_id"`
	IsPicked   bool       `db:"is_picked" json:"is_picked"`
	PickedAt   *time.Time `db:"picked_at" json:"picked_at"`
	PickedBy   *string    `db:"picked_by" json:"picked_by"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderRow is an order item joined with its product and category for display.
type OrderRow struct {
	OrderItem
	Product  *Product  `db:"-" json:"product"`
	Category *Category `db:"-" json:"category"`
}

// PickGroup is one category section of the pick list.
type PickGroup struct {
	Category *Category  `json:"category"`
	Rows     []OrderRow `json:"rows"`
}

type PickList struct {
	Todo   []PickGroup `json:"todo"`
	Picked []PickGroup `json:"picked"`
}
