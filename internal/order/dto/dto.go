package dto

import "github.com/fekuna/omnipos-picklist-service/internal/model"

type OrderFilters struct {
	StoreID  string
	EAN      string
	IsPicked *bool // Nil returns both picked and unpicked rows
}

type ScanResult struct {
	Product        *model.Product `json:"product"`
	CategoryID     string         `json:"category_id"`
	Qty            int            `json:"qty"`
	ProductCreated bool           `json:"product_created"`
}
