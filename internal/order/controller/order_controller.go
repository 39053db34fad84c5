package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/domain"
	"vitashop/internal/dto"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/order/service"
	"vitashop/internal/order/usecase"
	"vitashop/internal/pricing"
)

type CheckoutUseCase interface {
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (*domain.Order, error)
	ProcessPayment(ctx context.Context, orderID uint, requestingUserID *int, card domain.CardData, billing domain.Address) (*domain.Order, error)
}

type OrderUseCase interface {
	GetOrder(ctx context.Context, orderID uint, requestingUserID *int) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter, requestingUserID *int) ([]domain.Order, int, domain.OrderFilter, error)
	UpdateOrder(ctx context.Context, orderID uint, patch domain.OrderPatch, requestingUserID *int) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint, requestingUserID *int) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID uint, requestingUserID *int, restoreStock bool) error
}

type OrderController struct {
	checkout CheckoutUseCase
	orders   OrderUseCase
	logger   *zap.Logger
}

func NewOrderController(checkout CheckoutUseCase, orders OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		checkout: checkout,
		orders:   orders,
		logger:   logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	// Customers always order for themselves; admins name the owner.
	var userID int
	var details []apperrors.ValidationDetail
	switch {
	case caller.Admin && req.UserID == nil:
		details = append(details, apperrors.ValidationDetail{Field: "userId", Message: "userId is required"})
	case caller.Admin:
		userID = *req.UserID
	case req.UserID != nil && *req.UserID != caller.UserID:
		details = append(details, apperrors.ValidationDetail{Field: "userId", Message: "userId must match the authenticated user"})
	default:
		userID = caller.UserID
	}
	if req.CardData != nil {
		details = append(details, validateCard("cardData", *req.CardData)...)
		if req.PaymentAddress == nil {
			details = append(details, apperrors.ValidationDetail{Field: "paymentAddress", Message: "paymentAddress is required with cardData"})
		}
	}
	if req.PaymentAddress != nil {
		details = append(details, validateAddress("paymentAddress", *req.PaymentAddress)...)
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	in := usecase.CreateOrderInput{
		Draft: service.OrderDraft{
			UserID:          userID,
			Lines:           make([]pricing.LineInput, 0, len(req.Items)),
			ShippingCost:    valueOrZero(req.ShippingCost),
			Tax:             valueOrZero(req.Tax),
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Notes:           req.Notes,
		},
	}
	for _, item := range req.Items {
		in.Draft.Lines = append(in.Draft.Lines, pricing.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Discount:  valueOrZero(item.Discount),
		})
	}
	if req.CardData != nil && req.PaymentAddress != nil {
		card := toCardData(*req.CardData)
		billing := toAddress(*req.PaymentAddress)
		in.Card, in.Billing = &card, &billing
	}

	order, err := c.checkout.CreateOrder(r.Context(), in)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, toOrderResponse(*order), logger)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := domain.OrderFilter{
		Status:        query.Get("status"),
		PaymentStatus: query.Get("paymentStatus"),
	}
	var details []apperrors.ValidationDetail
	for field, target := range map[string]*int{"page": &filter.Page, "limit": &filter.Limit} {
		raw := query.Get(field)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: field, Message: field + " must be a positive integer"})
			continue
		}
		*target = n
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	orders, total, applied, err := c.orders.ListOrders(r.Context(), filter, caller.RequestingUserID())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Total:  total,
		Page:   applied.Page,
		Limit:  applied.Limit,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.orders.GetOrder(r.Context(), orderID, caller.RequestingUserID())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderResponse(*order), logger)
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	patch := domain.OrderPatch{
		Status:          req.Status,
		PaymentStatus:   req.PaymentStatus,
		TrackingNumber:  req.TrackingNumber,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
	}
	order, err := c.orders.UpdateOrder(r.Context(), orderID, patch, caller.RequestingUserID())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderResponse(*order), logger)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.orders.CancelOrder(r.Context(), orderID, caller.RequestingUserID())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderResponse(*order), logger)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	restoreStock := false
	if raw := r.URL.Query().Get("restoreStock"); raw != "" {
		restoreStock, err = strconv.ParseBool(raw)
		if err != nil {
			commons.WriteValidationError(w, traceID, "invalid restoreStock", logger, apperrors.ValidationDetail{
				Field:   "restoreStock",
				Message: "restoreStock must be true or false",
			})
			return
		}
	}

	if err := c.orders.DeleteOrder(r.Context(), orderID, caller.RequestingUserID(), restoreStock); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusNoContent, nil, logger)
}

func (c *OrderController) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, ok := principal(w, r, traceID, logger)
	if !ok {
		return
	}
	orderID, err := parseOrderID(r)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if req.CardData == nil {
		details = append(details, apperrors.ValidationDetail{Field: "cardData", Message: "cardData is required"})
	} else {
		details = append(details, validateCard("cardData", *req.CardData)...)
	}
	if req.BillingAddress == nil {
		details = append(details, apperrors.ValidationDetail{Field: "billingAddress", Message: "billingAddress is required"})
	} else {
		details = append(details, validateAddress("billingAddress", *req.BillingAddress)...)
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", logger, details...)
		return
	}

	order, err := c.checkout.ProcessPayment(r.Context(), orderID, caller.RequestingUserID(), toCardData(*req.CardData), toAddress(*req.BillingAddress))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toOrderResponse(*order), logger)
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
