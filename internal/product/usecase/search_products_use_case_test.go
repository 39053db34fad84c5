package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitashop/internal/domain"
	"vitashop/internal/dto"
)

type mockService struct {
	getProductsByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, []int, error)
}

func (m *mockService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	return m.getProductsByIDsFunc(ctx, ids)
}

func TestSearchProducts(t *testing.T) {
	qty := 4
	url := "https://amazon.example/mat"
	svc := &mockService{
		getProductsByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
			return []domain.Product{
				{
					ID:       1,
					Name:     "Whey",
					Price:    decimal.NewNullDecimal(decimal.RequireFromString("10.99")),
					Quantity: &qty,
					Status:   domain.ProductStatusActive,
				},
				{
					ID:          2,
					Name:        "Mat",
					Price:       decimal.NewNullDecimal(decimal.RequireFromString("89.00")),
					ExternalURL: &url,
					Status:      domain.ProductStatusActive,
				},
			}, nil, nil
		},
	}
	uc := NewSearchUseCase(svc)

	resp, err := uc.SearchProducts(context.Background(), dto.SearchProductsRequest{ProductIDs: []int{1, 2}})
	require.NoError(t, err)
	require.Len(t, resp.Products, 2)

	assert.True(t, resp.Products[0].Orderable)
	assert.Equal(t, "10.99", resp.Products[0].Price.StringFixed(2))
	assert.False(t, resp.Products[1].Orderable)
	assert.NotNil(t, resp.NotFound)
	assert.Empty(t, resp.NotFound)
}

func TestToProductDTO_NullPrice(t *testing.T) {
	out := ToProductDTO(domain.Product{ID: 9, Status: domain.ProductStatusActive})

	assert.Nil(t, out.Price)
	assert.False(t, out.Orderable)
}
