package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

type CardDataRequest struct {
	Number       string `json:"number"`
	HolderName   string `json:"holderName"`
	ExpMonth     int    `json:"expMonth"`
	ExpYear      int    `json:"expYear"`
	CVV          string `json:"cvv"`
	Document     string `json:"document,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Installments int    `json:"installments,omitempty"`
	CustomerType string `json:"customerType,omitempty"`
}

type AddressRequest struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country,omitempty"`
}

// CreateOrderRequest creates a pending order. When both cardData and
// paymentAddress are present the order is charged right away.
type CreateOrderRequest struct {
	UserID          *int               `json:"userId,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	ShippingCost    *decimal.Decimal   `json:"shippingCost,omitempty"`
	Tax             *decimal.Decimal   `json:"tax,omitempty"`
	ShippingAddress *string            `json:"shippingAddress,omitempty"`
	BillingAddress  *string            `json:"billingAddress,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CardData        *CardDataRequest   `json:"cardData,omitempty"`
	PaymentAddress  *AddressRequest    `json:"paymentAddress,omitempty"`
}

type UpdateOrderRequest struct {
	Status          *string `json:"status,omitempty"`
	PaymentStatus   *string `json:"paymentStatus,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
	BillingAddress  *string `json:"billingAddress,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type ProcessPaymentRequest struct {
	CardData       *CardDataRequest `json:"cardData"`
	BillingAddress *AddressRequest  `json:"billingAddress"`
}

type OrderItemResponse struct {
	ID        uint            `json:"id"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

type OrderResponse struct {
	ID                   uint                `json:"id"`
	UserID               int                 `json:"userId"`
	Status               string              `json:"status"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	ShippingCost         decimal.Decimal     `json:"shippingCost"`
	Tax                  decimal.Decimal     `json:"tax"`
	Total                decimal.Decimal     `json:"total"`
	PaymentMethod        *string             `json:"paymentMethod"`
	PaymentStatus        string              `json:"paymentStatus"`
	PaymentTransactionID *string             `json:"paymentTransactionId"`
	ShippingAddress      *string             `json:"shippingAddress"`
	BillingAddress       *string             `json:"billingAddress"`
	Notes                *string             `json:"notes"`
	TrackingNumber       *string             `json:"trackingNumber"`
	Items                []OrderItemResponse `json:"items"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
