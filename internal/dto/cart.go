package dto

import "github.com/shopspring/decimal"

type CartItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type ValidateCartRequest struct {
	Items []CartItemRequest `json:"items"`
}

type ValidCartItem struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type InvalidCartItem struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Available *int   `json:"available,omitempty"`
}

type ValidateCartResponse struct {
	ValidItems   []ValidCartItem   `json:"validItems"`
	InvalidItems []InvalidCartItem `json:"invalidItems"`
}
