package repository

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/search"
)

const productMapping = `{
	"mappings": {
		"properties": {
			"ean": { "type": "keyword" },
			"name": { "type": "text" },
			"brand": { "type": "text" },
			"weight": { "type": "keyword" },
			"image_url": { "type": "keyword", "index": false },
			"default_category_id": { "type": "keyword" },
			"created_at": { "type": "date" },
			"updated_at": { "type": "date" }
		}
	}
}`

// ESRepository keeps the product catalog searchable by name, brand and EAN.
type ESRepository struct {
	Client *search.Client
	Index  string
}

func NewESRepository(client *search.Client, index string) *ESRepository {
	if index == "" {
		index = "products"
	}
	return &ESRepository{Client: client, Index: index}
}

func (r *ESRepository) EnsureIndex(ctx context.Context) error {
	return r.Client.CreateIndex(ctx, r.Index, productMapping)
}

func (r *ESRepository) IndexProduct(ctx context.Context, p *model.Product) error {
	return r.Client.Index(ctx, r.Index, p.EAN, p)
}

func (r *ESRepository) SearchProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     f.SearchQuery,
							"fields":    []string{"name^3", "brand"},
							"fuzziness": "AUTO",
						},
					},
					{
						"prefix": map[string]interface{}{
							"ean": f.SearchQuery,
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
	}
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * f.PageSize
		q["size"] = f.PageSize
	}

	res, err := r.Client.Search(ctx, r.Index, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}
