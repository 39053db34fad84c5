package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vitashop/internal/domain"
	"vitashop/internal/inventory"
	"vitashop/internal/pricing"
	"vitashop/internal/testutil"
)

func intPtr(i int) *int {
	return &i
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type fixture struct {
	store        *testutil.MemoryStore
	ledger       *inventory.Ledger
	reservations *ReservationService
	orders       *OrderService
}

func newFixture() *fixture {
	store := testutil.NewMemoryStore()
	logger := zap.NewNop()
	ledger := inventory.NewLedger(store.Products(), store, logger)

	return &fixture{
		store:        store,
		ledger:       ledger,
		reservations: NewReservationService(store, store.Products(), store.Orders(), store.Items(), ledger, logger),
		orders:       NewOrderService(store, store.Orders(), store.Items(), ledger, logger),
	}
}

// createOrder reserves quantity units of productID for user 1.
func (f *fixture) createOrder(productID, quantity int) (*domain.Order, error) {
	return f.reservations.CreatePendingOrder(context.Background(), OrderDraft{
		UserID: 1,
		Lines:  []pricing.LineInput{{ProductID: productID, Quantity: quantity}},
	})
}
