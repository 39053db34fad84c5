package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int
	Name        string
	Description string
	Price       decimal.NullDecimal
	Quantity    *int
	ExternalURL *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

const ProductStatusActive = "active"

// Reasons a product cannot be put in a cart.
const (
	ReasonNotFound          = "not_found"
	ReasonInactive          = "inactive"
	ReasonExternalURL       = "external_url"
	ReasonNoPrice           = "no_price"
	ReasonOutOfStock        = "out_of_stock"
	ReasonInsufficientStock = "insufficient_stock"
)

func (p Product) HasExternalURL() bool {
	return p.ExternalURL != nil && *p.ExternalURL != ""
}

// StockTracked reports whether the inventory ledger manages this product.
func (p Product) StockTracked() bool {
	return p.Quantity != nil && !p.HasExternalURL()
}

func (p Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// AvailableStock returns the quantity on hand, or -1 for untracked products.
func (p Product) AvailableStock() int {
	if !p.StockTracked() {
		return -1
	}
	if *p.Quantity < 0 {
		return 0
	}
	return *p.Quantity
}

// OrderableReason returns the first reason the product cannot be ordered
// in the given quantity, or "" when it can.
func (p Product) OrderableReason(quantity int) string {
	if p.IsDeleted() {
		return ReasonNotFound
	}
	if p.HasExternalURL() {
		return ReasonExternalURL
	}
	if p.Status != ProductStatusActive {
		return ReasonInactive
	}
	if !p.Price.Valid {
		return ReasonNoPrice
	}
	if p.StockTracked() {
		available := p.AvailableStock()
		if available == 0 {
			return ReasonOutOfStock
		}
		if available < quantity {
			return ReasonInsufficientStock
		}
	}
	return ""
}
