package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                   uint
	UserID               int
	Status               string
	Subtotal             decimal.Decimal
	ShippingCost         decimal.Decimal
	Tax                  decimal.Decimal
	Total                decimal.Decimal
	PaymentMethod        *string
	PaymentStatus        string
	PaymentTransactionID *string
	ShippingAddress      *string
	BillingAddress       *string
	Notes                *string
	TrackingNumber       *string
	StockReserved        bool
	Items                []OrderItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            *time.Time
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

const PaymentMethodCreditCard = "credit_card"

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

func (o Order) IsOwnedBy(userID int) bool {
	return o.UserID == userID
}

func (o Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// OrderPatch holds the fields an update may touch. Nil means unchanged.
type OrderPatch struct {
	Status          *string
	PaymentStatus   *string
	TrackingNumber  *string
	ShippingAddress *string
	BillingAddress  *string
	Notes           *string
}

func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.TrackingNumber == nil &&
		p.ShippingAddress == nil && p.BillingAddress == nil && p.Notes == nil
}

type OrderFilter struct {
	UserID        *int
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
}

func (f OrderFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
