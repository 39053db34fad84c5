package events

import (
	"time"

	"github.com/google/uuid"

	"vitashop/internal/domain"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderPaid          = "order.paid"
	TypeOrderPaymentFailed = "order.payment_failed"
	TypeOrderCancelled     = "order.cancelled"
)

type OrderEvent struct {
	EventID       string    `json:"event_id"`
	Type          string    `json:"type"`
	OrderID       uint      `json:"order_id"`
	UserID        int       `json:"user_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Total         string    `json:"total"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewOrderEvent snapshots order into an event of the given type.
func NewOrderEvent(eventType string, order domain.Order, reason string) OrderEvent {
	e := OrderEvent{
		EventID:       uuid.New().String(),
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total.StringFixed(2),
		Reason:        reason,
		Timestamp:     time.Now().UTC(),
	}
	if order.PaymentTransactionID != nil {
		e.TransactionID = *order.PaymentTransactionID
	}
	return e
}
