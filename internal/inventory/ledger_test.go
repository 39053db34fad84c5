package inventory

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

func intPtr(i int) *int {
	return &i
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return fn(ctx, nil)
}

// memoryStock mimics the conditional SQL updates of the product repository.
type memoryStock struct {
	products map[int]*domain.Product
	failWith error
}

func (m *memoryStock) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, apperrors.NewProductNotFoundError(productID)
	}
	cp := *p
	return &cp, nil
}

func (m *memoryStock) DecrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	p := m.products[productID]
	if p.Quantity == nil || *p.Quantity < amount {
		return false, nil
	}
	*p.Quantity -= amount
	return true, nil
}

func (m *memoryStock) IncrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) error {
	p, ok := m.products[productID]
	if !ok || !p.StockTracked() {
		return nil
	}
	*p.Quantity += amount
	return nil
}

func (m *memoryStock) SetQuantity(ctx context.Context, tx *sql.Tx, productID int, quantity int) error {
	m.products[productID].Quantity = intPtr(quantity)
	return nil
}

func newTestLedger(stock *memoryStock) *Ledger {
	return NewLedger(stock, fakeTxRunner{}, zap.NewNop())
}

func TestReserve_DecrementsTrackedProduct(t *testing.T) {
	stock := &memoryStock{products: map[int]*domain.Product{1: {ID: 1, Quantity: intPtr(5)}}}
	ledger := newTestLedger(stock)

	err := ledger.Reserve(context.Background(), nil, *stock.products[1], 5)
	require.NoError(t, err)

	assert.Equal(t, 0, *stock.products[1].Quantity)
}

func TestReserve_NoOpForUnlimitedAndExternal(t *testing.T) {
	url := "https://partner.example/p/1"
	stock := &memoryStock{
		products: map[int]*domain.Product{
			1: {ID: 1},
			2: {ID: 2, Quantity: intPtr(3), ExternalURL: &url},
		},
		failWith: errors.New("must not be called"),
	}
	ledger := newTestLedger(stock)

	require.NoError(t, ledger.Reserve(context.Background(), nil, *stock.products[1], 10))
	require.NoError(t, ledger.Reserve(context.Background(), nil, *stock.products[2], 10))
	assert.Equal(t, 3, *stock.products[2].Quantity)
}

func TestReserve_LostRaceIsInsufficientStock(t *testing.T) {
	stock := &memoryStock{products: map[int]*domain.Product{1: {ID: 1, Quantity: intPtr(1)}}}
	ledger := newTestLedger(stock)

	// Snapshot taken before a concurrent order drained the stock.
	snapshot := domain.Product{ID: 1, Quantity: intPtr(2)}

	err := ledger.Reserve(context.Background(), nil, snapshot, 2)

	ue, ok := apperrors.IsUnprocessableError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInsufficientStock, ue.Code)
	assert.Equal(t, 1, *stock.products[1].Quantity)
}

func TestReserve_RepositoryError(t *testing.T) {
	stock := &memoryStock{
		products: map[int]*domain.Product{1: {ID: 1, Quantity: intPtr(5)}},
		failWith: errors.New("database error"),
	}
	ledger := newTestLedger(stock)

	err := ledger.Reserve(context.Background(), nil, *stock.products[1], 1)
	assert.ErrorContains(t, err, "database error")
}

func TestRelease_RoundTripRestoresQuantity(t *testing.T) {
	stock := &memoryStock{products: map[int]*domain.Product{1: {ID: 1, Quantity: intPtr(7)}}}
	ledger := newTestLedger(stock)
	ctx := context.Background()

	require.NoError(t, ledger.Reserve(ctx, nil, *stock.products[1], 4))
	require.NoError(t, ledger.Release(ctx, nil, 1, 4))

	assert.Equal(t, 7, *stock.products[1].Quantity)
}

func TestUpdateStock_Operations(t *testing.T) {
	tests := []struct {
		name     string
		start    *int
		quantity int
		op       StockOperation
		want     int
	}{
		{name: "add", start: intPtr(3), quantity: 2, op: StockAdd, want: 5},
		{name: "subtract", start: intPtr(3), quantity: 2, op: StockSubtract, want: 1},
		{name: "subtract clamps to zero", start: intPtr(3), quantity: 10, op: StockSubtract, want: 0},
		{name: "set", start: intPtr(3), quantity: 42, op: StockSet, want: 42},
		{name: "add to untracked starts at zero", start: nil, quantity: 4, op: StockAdd, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := &memoryStock{products: map[int]*domain.Product{1: {ID: 1, Quantity: tt.start}}}
			ledger := newTestLedger(stock)

			product, err := ledger.UpdateStock(context.Background(), 1, tt.quantity, tt.op)
			require.NoError(t, err)

			assert.Equal(t, tt.want, *product.Quantity)
			assert.Equal(t, tt.want, *stock.products[1].Quantity)
		})
	}
}

func TestUpdateStock_Rejections(t *testing.T) {
	url := "https://partner.example/p/9"
	stock := &memoryStock{products: map[int]*domain.Product{9: {ID: 9, Quantity: intPtr(1), ExternalURL: &url}}}
	ledger := newTestLedger(stock)
	ctx := context.Background()

	_, err := ledger.UpdateStock(ctx, 9, 1, StockOperation("multiply"))
	_, isValidation := apperrors.IsValidationError(err)
	assert.True(t, isValidation)

	_, err = ledger.UpdateStock(ctx, 9, -1, StockAdd)
	_, isValidation = apperrors.IsValidationError(err)
	assert.True(t, isValidation)

	_, err = ledger.UpdateStock(ctx, 9, 1, StockAdd)
	_, isUnprocessable := apperrors.IsUnprocessableError(err)
	assert.True(t, isUnprocessable)

	_, err = ledger.UpdateStock(ctx, 404, 1, StockAdd)
	_, isNotFound := apperrors.IsNotFoundError(err)
	assert.True(t, isNotFound)
}
