package dto

type ProductFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}
