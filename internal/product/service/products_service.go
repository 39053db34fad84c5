package service

import (
	"context"

	"vitashop/internal/domain"
)

type Repository interface {
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
}

type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

// GetProductsByIDs splits ids into the products that exist and the ids that
// do not. Soft-deleted products count as missing.
func (s *ProductService) GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []int
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

// GetProductMap is the lookup form used by pricing and cart validation.
func (s *ProductService) GetProductMap(ctx context.Context, ids []int) (map[int]domain.Product, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	products := make(map[int]domain.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}
