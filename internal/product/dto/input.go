package dto

type CreateProductInput struct {
	EAN               string
	Name              string
	Brand             *string
	Weight            *string
	ImageURL          *string
	DefaultCategoryID *string
}
