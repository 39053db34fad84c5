package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/events"
)

func TestGetOrder_IncludesItems(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("2.50"), Quantity: intPtr(5)})
	created := h.createPending(t, 1, p.ID, 2)

	order, err := h.orders.GetOrder(context.Background(), created.ID, intPtr(1))
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "5.00", order.Items[0].Total.StringFixed(2))
}

func TestGetOrder_NotFoundVersusForbidden(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("2.50"), Quantity: intPtr(5)})
	created := h.createPending(t, 1, p.ID, 1)

	_, err := h.orders.GetOrder(context.Background(), created.ID, intPtr(2))
	_, forbidden := apperrors.IsForbiddenError(err)
	assert.True(t, forbidden)

	_, err = h.orders.GetOrder(context.Background(), 404, intPtr(2))
	nfe, notFound := apperrors.IsNotFoundError(err)
	require.True(t, notFound)
	assert.Equal(t, apperrors.CodeOrderNotFound, nfe.Code)

	order, err := h.orders.GetOrder(context.Background(), created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, order.UserID)
}

func TestNonOwnerCannotChangeOrder(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("2.50"), Quantity: intPtr(5)})
	created := h.createPending(t, 1, p.ID, 2)
	intruder := intPtr(2)

	_, err := h.orders.CancelOrder(context.Background(), created.ID, intruder)
	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	tracking := "X"
	_, err = h.orders.UpdateOrder(context.Background(), created.ID, domain.OrderPatch{TrackingNumber: &tracking}, intruder)
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	err = h.orders.DeleteOrder(context.Background(), created.ID, intruder, true)
	_, ok = apperrors.IsForbiddenError(err)
	assert.True(t, ok)

	stored, _ := h.store.Order(created.ID)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
	assert.Nil(t, stored.TrackingNumber)
	assert.Nil(t, stored.DeletedAt)
	assert.Equal(t, 3, h.store.Quantity(p.ID))
}

func TestListOrders_ScopesToRequester(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("1.00"), Quantity: intPtr(50)})
	h.createPending(t, 1, p.ID, 1)
	h.createPending(t, 1, p.ID, 1)
	h.createPending(t, 2, p.ID, 1)

	orders, total, applied, err := h.orders.ListOrders(context.Background(), domain.OrderFilter{}, intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Len(t, orders, 2)
	assert.Equal(t, 1, applied.Page)
	assert.Equal(t, 10, applied.Limit)
	for _, o := range orders {
		assert.Equal(t, 1, o.UserID)
		assert.Len(t, o.Items, 1)
	}

	_, total, _, err = h.orders.ListOrders(context.Background(), domain.OrderFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestListOrders_ClampsLimitAndValidatesFilters(t *testing.T) {
	h := newHarness()

	_, _, applied, err := h.orders.ListOrders(context.Background(), domain.OrderFilter{Page: 2, Limit: 1000}, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, applied.Limit)
	assert.Equal(t, 2, applied.Page)

	_, _, _, err = h.orders.ListOrders(context.Background(), domain.OrderFilter{Status: "shipped"}, nil)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateOrder(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("1.00"), Quantity: intPtr(5)})
	created := h.createPending(t, 1, p.ID, 1)

	status := domain.OrderStatusProcessing
	notes := "leave at the door"
	updated, err := h.orders.UpdateOrder(context.Background(), created.ID, domain.OrderPatch{Status: &status, Notes: &notes}, intPtr(1))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)
	assert.Equal(t, notes, *updated.Notes)
	assert.True(t, updated.Total.Equal(created.Total))
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 4, h.store.Quantity(p.ID))
}

func TestUpdateOrder_RejectsInvalidPatches(t *testing.T) {
	cancelled := domain.OrderStatusCancelled
	unknown := "lost"
	tests := []struct {
		name  string
		patch domain.OrderPatch
	}{
		{"empty", domain.OrderPatch{}},
		{"cancel through update", domain.OrderPatch{Status: &cancelled}},
		{"unknown status", domain.OrderPatch{Status: &unknown}},
		{"unknown payment status", domain.OrderPatch{PaymentStatus: &unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			p := h.store.AddProduct(domain.Product{ID: 1, Price: price("1.00"), Quantity: intPtr(5)})
			created := h.createPending(t, 1, p.ID, 1)

			_, err := h.orders.UpdateOrder(context.Background(), created.ID, tt.patch, nil)

			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok)
			stored, _ := h.store.Order(created.ID)
			assert.Equal(t, domain.OrderStatusPending, stored.Status)
		})
	}
}

func TestCancelOrder_ConservesStock(t *testing.T) {
	h := newHarness()
	a := h.store.AddProduct(domain.Product{ID: 1, Price: price("1.00"), Quantity: intPtr(10)})
	b := h.store.AddProduct(domain.Product{ID: 2, Price: price("1.00"), Quantity: intPtr(7)})

	first := h.createPending(t, 1, a.ID, 4)
	second := h.createPending(t, 1, b.ID, 7)
	assert.Equal(t, 6, h.store.Quantity(a.ID))
	assert.Equal(t, 0, h.store.Quantity(b.ID))

	for _, id := range []uint{first.ID, second.ID} {
		cancelled, err := h.orders.CancelOrder(context.Background(), id, intPtr(1))
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	}

	assert.Equal(t, 10, h.store.Quantity(a.ID))
	assert.Equal(t, 7, h.store.Quantity(b.ID))

	_, err := h.orders.CancelOrder(context.Background(), first.ID, intPtr(1))
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeOrderAlreadyCancelled, ce.Code)
	assert.Equal(t, 10, h.store.Quantity(a.ID))

	types := h.publisher.types()
	assert.Equal(t, events.TypeOrderCancelled, types[len(types)-1])
}

func TestDeleteOrder_HidesOrder(t *testing.T) {
	h := newHarness()
	p := h.store.AddProduct(domain.Product{ID: 1, Price: price("1.00"), Quantity: intPtr(5)})
	created := h.createPending(t, 1, p.ID, 2)

	require.NoError(t, h.orders.DeleteOrder(context.Background(), created.ID, intPtr(1), true))
	assert.Equal(t, 5, h.store.Quantity(p.ID))

	_, err := h.orders.GetOrder(context.Background(), created.ID, intPtr(1))
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	_, total, _, err := h.orders.ListOrders(context.Background(), domain.OrderFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
