package realtime

import (
	"context"
	"time"
)

type Table string

const (
	TableOrderItems Table = "order_items"
	TableProducts   Table = "products"
	TableCategories Table = "categories"
	TableStores     Table = "stores"
	TableSettings   Table = "global_settings"
)

type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
	ActionPicked Action = "picked"
	ActionClear  Action = "clear"
	ActionMove   Action = "move"
)

// Change announces that something in Table changed. It is a hint: subscribers
// must re-fetch rather than apply it as authoritative state.
type Change struct {
	Table   Table     `json:"table"`
	StoreID string    `json:"store_id,omitempty"` // Empty for changes visible to every store
	EAN     string    `json:"ean,omitempty"`
	Action  Action    `json:"action"`
	At      time.Time `json:"at"`
}

// Notifier publishes changes. Implementations are fire-and-forget from the
// caller's point of view; a failed publish never fails the mutation.
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// NopNotifier drops every change.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Change) error { return nil }
