package model

import "time"

type Product struct {
	EAN               string    `db:"ean" json:"ean"`
	Name              string    `db:"name" json:"name"`
	Brand             *string   `db:"brand" json:"brand"`
	Weight            *string   `db:"weight" json:"weight"`
	ImageURL          *string   `db:"image_url" json:"image_url"`
	DefaultCategoryID *string   `db:"default_category_id" json:"default_category_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ProductPatch is a partial product update. Absent fields are left untouched,
// explicit nulls clear the column.
type ProductPatch struct {
	Name              Optional[string] `json:"name"`
	Brand             Optional[string] `json:"brand"`
	Weight            Optional[string] `json:"weight"`
	ImageURL          Optional[string] `json:"image_url"`
	DefaultCategoryID Optional[string] `json:"default_category_id"`
}

func (p *ProductPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Brand.Set && !p.Weight.Set && !p.ImageURL.Set && !p.DefaultCategoryID.Set
}
