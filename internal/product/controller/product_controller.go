package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/domain"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/inventory"
	"vitashop/internal/product/usecase"
)

const maxSearchIDs = 100

type SearchUseCase interface {
	SearchProducts(ctx context.Context, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error)
}

type StockUpdater interface {
	UpdateStock(ctx context.Context, productID int, quantity int, op inventory.StockOperation) (*domain.Product, error)
}

type Controller struct {
	search SearchUseCase
	stock  StockUpdater
	logger *zap.Logger
}

func NewController(search SearchUseCase, stock StockUpdater, logger *zap.Logger) *Controller {
	return &Controller{
		search: search,
		stock:  stock,
		logger: logger,
	}
}

func (c *Controller) Search(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SearchProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if len(req.ProductIDs) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "productIds", Message: "productIds must not be empty"})
	}
	if len(req.ProductIDs) > maxSearchIDs {
		details = append(details, apperrors.ValidationDetail{Field: "productIds", Message: "productIds exceeds maximum of 100"})
	}
	for idx, id := range req.ProductIDs {
		if id <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "productIds[" + strconv.Itoa(idx) + "]",
				Message: "each productId must be a positive integer",
			})
		}
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	resp, err := c.search.SearchProducts(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *Controller) UpdateStock(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || productID <= 0 {
		commons.WriteValidationError(w, traceID, "invalid productId", logger, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	var req dto.UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Quantity == nil {
		commons.WriteValidationError(w, traceID, "validation failed", logger, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity is required",
		})
		return
	}
	if req.Operation == "" {
		req.Operation = string(inventory.StockSet)
	}

	product, err := c.stock.UpdateStock(r.Context(), productID, *req.Quantity, inventory.StockOperation(req.Operation))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, usecase.ToProductDTO(*product), logger)
}
