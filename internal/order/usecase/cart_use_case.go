package usecase

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
)

type ProductLookup interface {
	GetProductMap(ctx context.Context, ids []int) (map[int]domain.Product, error)
}

// CartUseCase pre-flights a cart without reserving anything.
type CartUseCase struct {
	products ProductLookup
	logger   *zap.Logger
}

func NewCartUseCase(products ProductLookup, logger *zap.Logger) *CartUseCase {
	return &CartUseCase{
		products: products,
		logger:   logger,
	}
}

func (uc *CartUseCase) ValidateCartItems(ctx context.Context, items []dto.CartItemRequest) (*dto.ValidateCartResponse, error) {
	var details []apperrors.ValidationDetail
	if len(items) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items must not be empty"})
	}
	if len(items) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items exceeds maximum of 100"})
	}
	for idx, item := range items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].productId",
				Message: "each productId must be a positive integer",
			})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be a positive integer",
			})
		}
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.products.GetProductMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &dto.ValidateCartResponse{
		ValidItems:   []dto.ValidCartItem{},
		InvalidItems: []dto.InvalidCartItem{},
	}
	for _, item := range items {
		product, ok := products[item.ProductID]
		reason := domain.ReasonNotFound
		if ok {
			reason = product.OrderableReason(item.Quantity)
		}

		if reason == "" {
			resp.ValidItems = append(resp.ValidItems, dto.ValidCartItem{
				ProductID: item.ProductID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				UnitPrice: product.Price.Decimal,
			})
			continue
		}

		invalid := dto.InvalidCartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Reason:    reason,
		}
		if reason == domain.ReasonOutOfStock || reason == domain.ReasonInsufficientStock {
			available := product.AvailableStock()
			invalid.Available = &available
		}
		resp.InvalidItems = append(resp.InvalidItems, invalid)
	}

	uc.logger.Debug("cart validated", zap.Int("valid", len(resp.ValidItems)), zap.Int("invalid", len(resp.InvalidItems)))
	return resp, nil
}
