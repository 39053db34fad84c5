package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

func TestCancel_RestoresStock(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(8)})
	other := f.store.AddProduct(domain.Product{ID: 2, Price: price("2.00"), Quantity: intPtr(8)})

	order, err := f.createOrder(p.ID, 3)
	require.NoError(t, err)
	_, err = f.createOrder(other.ID, 2)
	require.NoError(t, err)

	cancelled, err := f.orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)

	assert.Equal(t, 8, f.store.Quantity(p.ID))
	assert.Equal(t, 6, f.store.Quantity(other.ID))
}

func TestCancel_TwiceIsRejectedWithoutSecondRelease(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(5)})

	order, err := f.createOrder(p.ID, 2)
	require.NoError(t, err)

	_, err = f.orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.orders.Cancel(context.Background(), order.ID)
	ce, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeOrderAlreadyCancelled, ce.Code)
	assert.Equal(t, 5, f.store.Quantity(p.ID))
}

func TestMarkPaymentFailed_ThenCancel_ReleasesOnce(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(5)})

	order, err := f.createOrder(p.ID, 2)
	require.NoError(t, err)

	released, err := f.orders.MarkPaymentFailed(context.Background(), order.ID, "tran_9")
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, 5, f.store.Quantity(p.ID))

	_, err = f.orders.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.store.Quantity(p.ID))

	stored, _ := f.store.Order(order.ID)
	assert.Equal(t, domain.PaymentStatusFailed, stored.PaymentStatus)
	assert.Equal(t, "tran_9", *stored.PaymentTransactionID)
}

func TestDelete_WithAndWithoutRestore(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(10)})

	kept, err := f.createOrder(p.ID, 3)
	require.NoError(t, err)
	restored, err := f.createOrder(p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.Quantity(p.ID))

	require.NoError(t, f.orders.Delete(context.Background(), kept.ID, false))
	assert.Equal(t, 3, f.store.Quantity(p.ID))

	require.NoError(t, f.orders.Delete(context.Background(), restored.ID, true))
	assert.Equal(t, 7, f.store.Quantity(p.ID))

	stored, ok := f.store.Order(restored.ID)
	require.True(t, ok)
	assert.NotNil(t, stored.DeletedAt)

	err = f.orders.Delete(context.Background(), restored.ID, true)
	_, isNotFound := apperrors.IsNotFoundError(err)
	assert.True(t, isNotFound)
	assert.Equal(t, 7, f.store.Quantity(p.ID))
}

func TestUpdate_AppliesPatchWithoutTouchingStock(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(10)})

	order, err := f.createOrder(p.ID, 3)
	require.NoError(t, err)

	status := domain.OrderStatusProcessing
	tracking := "BR1"
	require.NoError(t, f.orders.Update(context.Background(), order.ID, intPtr(1), domain.OrderPatch{Status: &status, TrackingNumber: &tracking}))

	stored, _ := f.store.Order(order.ID)
	assert.Equal(t, domain.OrderStatusProcessing, stored.Status)
	assert.Equal(t, "BR1", *stored.TrackingNumber)
	assert.True(t, stored.Total.Equal(order.Total))
	assert.Equal(t, 7, f.store.Quantity(p.ID))
}

func TestUpdate_RejectsNonOwnerUnderLock(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(10)})

	order, err := f.createOrder(p.ID, 1)
	require.NoError(t, err)

	tracking := "BR2"
	err = f.orders.Update(context.Background(), order.ID, intPtr(2), domain.OrderPatch{TrackingNumber: &tracking})

	fe, ok := apperrors.IsForbiddenError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeOrderAuthorization, fe.Code)
	stored, _ := f.store.Order(order.ID)
	assert.Nil(t, stored.TrackingNumber)
}

func TestUpdate_TrustedCallerSkipsOwnership(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("2.00"), Quantity: intPtr(10)})

	order, err := f.createOrder(p.ID, 1)
	require.NoError(t, err)

	tracking := "BR3"
	require.NoError(t, f.orders.Update(context.Background(), order.ID, nil, domain.OrderPatch{TrackingNumber: &tracking}))

	stored, _ := f.store.Order(order.ID)
	assert.Equal(t, "BR3", *stored.TrackingNumber)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture()
	p := f.store.AddProduct(domain.Product{ID: 1, Price: price("10.99"), Quantity: intPtr(1)})

	order, err := f.createOrder(p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.orders.RecordPayment(context.Background(), order.ID, domain.PaymentStatusPaid, "trans_1"))

	stored, _ := f.store.Order(order.ID)
	assert.Equal(t, domain.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, domain.PaymentMethodCreditCard, *stored.PaymentMethod)
	assert.Equal(t, "trans_1", *stored.PaymentTransactionID)
	assert.True(t, stored.StockReserved)
}
