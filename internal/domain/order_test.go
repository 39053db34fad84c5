package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_Ownership(t *testing.T) {
	order := Order{ID: 1, UserID: 10, Status: OrderStatusPending, PaymentStatus: PaymentStatusPending}

	assert.True(t, order.IsOwnedBy(10))
	assert.False(t, order.IsOwnedBy(11))
	assert.False(t, order.IsCancelled())
}

func TestOrder_StatusConstants(t *testing.T) {
	assert.Equal(t, "pending", OrderStatusPending)
	assert.Equal(t, "processing", OrderStatusProcessing)
	assert.Equal(t, "cancelled", OrderStatusCancelled)
	assert.Equal(t, "paid", PaymentStatusPaid)
	assert.Equal(t, "failed", PaymentStatusFailed)
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidOrderStatus("processing"))
	assert.False(t, ValidOrderStatus("shipped"))
	assert.True(t, ValidPaymentStatus("failed"))
	assert.False(t, ValidPaymentStatus("refunded"))
}

func TestOrderPatch_IsEmpty(t *testing.T) {
	notes := "leave at the door"

	assert.True(t, OrderPatch{}.IsEmpty())
	assert.False(t, OrderPatch{Notes: &notes}.IsEmpty())
}

func TestOrderFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, OrderFilter{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, OrderFilter{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, OrderFilter{Page: 0, Limit: 10}.Offset())
}

func TestOrderItem_Creation(t *testing.T) {
	item := OrderItem{
		ID:        1,
		OrderID:   100,
		ProductID: 5,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("29.99"),
		Discount:  decimal.Zero,
		Total:     decimal.RequireFromString("89.97"),
	}

	assert.Equal(t, uint(100), item.OrderID)
	assert.True(t, item.UnitPrice.Mul(decimal.NewFromInt(3)).Equal(item.Total))
}
