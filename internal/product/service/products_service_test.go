package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitashop/internal/domain"
)

type mockRepository struct {
	findByIDsFunc func(ctx context.Context, ids []int) ([]domain.Product, error)
}

func (m *mockRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	return m.findByIDsFunc(ctx, ids)
}

func TestGetProductsByIDs_SplitsFoundAndMissing(t *testing.T) {
	repo := &mockRepository{
		findByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return []domain.Product{{ID: 1}, {ID: 3}}, nil
		},
	}
	svc := NewService(repo)

	found, notFound, err := svc.GetProductsByIDs(context.Background(), []int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, []int{2, 4}, notFound)
}

func TestGetProductsByIDs_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		findByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo)

	found, notFound, err := svc.GetProductsByIDs(context.Background(), []int{1})
	assert.Error(t, err)
	assert.Nil(t, found)
	assert.Nil(t, notFound)
}

func TestGetProductMap(t *testing.T) {
	repo := &mockRepository{
		findByIDsFunc: func(ctx context.Context, ids []int) ([]domain.Product, error) {
			return []domain.Product{{ID: 5, Name: "Whey"}, {ID: 8, Name: "Creatine"}}, nil
		},
	}
	svc := NewService(repo)

	products, err := svc.GetProductMap(context.Background(), []int{5, 8, 13})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Creatine", products[8].Name)
	_, ok := products[13]
	assert.False(t, ok)
}
