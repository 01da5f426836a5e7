package dto

type IncrementInput struct {
	StoreID    string
	EAN        string
	CategoryID string
	Delta      int
}

type SetQtyInput struct {
	StoreID    string
	EAN        string
	CategoryID string
	Qty        int
}

type SetPickedInput struct {
	StoreID  string
	EAN      string
	IsPicked bool
	PickedBy string
}

type MoveItemInput struct {
	StoreID        string
	EAN            string
	FromCategoryID string
	ToCategoryID   string
}

// ScanInput is one barcode scan. CategoryID falls back to the product's
// default category; Name is needed only when the EAN is new.
type ScanInput struct {
	StoreID    string
	EAN        string
	CategoryID string
	Delta      int
	Name       string
	Brand      *string
	Weight     *string
	ImageURL   *string
}
