package model

type Category struct {
	ID        string  `db:"id" json:"id"`
	StoreID   *string `db:"store_id" json:"store_id"` // Nil for global categories
	Name      string  `db:"name" json:"name"`
	SortIndex int     `db:"sort_index" json:"sort_index"`
}

// IsGlobal reports whether the category is shared by every store.
func (c *Category) IsGlobal() bool {
	return c.StoreID == nil
}

// DefaultCategories are seeded into every new store.
var DefaultCategories = []string{"Kolonial", "Kött/Chark", "Frukt & Grönt"}
