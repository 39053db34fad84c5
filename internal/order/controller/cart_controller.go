package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
)

type CartUseCase interface {
	ValidateCartItems(ctx context.Context, items []dto.CartItemRequest) (*dto.ValidateCartResponse, error)
}

type CartController struct {
	cart   CartUseCase
	logger *zap.Logger
}

func NewCartController(cart CartUseCase, logger *zap.Logger) *CartController {
	return &CartController{
		cart:   cart,
		logger: logger,
	}
}

func (c *CartController) Validate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ValidateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	resp, err := c.cart.ValidateCartItems(r.Context(), req.Items)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}
