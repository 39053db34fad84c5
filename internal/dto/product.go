package dto

import "github.com/shopspring/decimal"

type SearchProductsRequest struct {
	ProductIDs []int `json:"productIds"`
}

type ProductDTO struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	ExternalURL *string          `json:"externalUrl,omitempty"`
	Status      string           `json:"status"`
	Orderable   bool             `json:"orderable"`
}

type SearchProductsResponse struct {
	Products []ProductDTO `json:"products"`
	NotFound []int        `json:"notFound"`
}

type UpdateStockRequest struct {
	Quantity  *int   `json:"quantity"`
	Operation string `json:"operation"`
}
