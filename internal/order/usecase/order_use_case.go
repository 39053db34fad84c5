package usecase

import (
	"context"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/events"
)

type OrderWriter interface {
	Cancel(ctx context.Context, orderID uint) (*domain.Order, error)
	Delete(ctx context.Context, orderID uint, restoreStock bool) error
	Update(ctx context.Context, orderID uint, requestingUserID *int, patch domain.OrderPatch) error
}

// OrderUseCase serves reads and lifecycle changes of existing orders. Every
// operation applies the ownership rule before touching the order.
type OrderUseCase struct {
	orders          OrderReader
	items           OrderItemReader
	writer          OrderWriter
	publisher       events.Publisher
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

func NewOrderUseCase(
	orders OrderReader,
	items OrderItemReader,
	writer OrderWriter,
	publisher events.Publisher,
	logger *zap.Logger,
	defaultPageSize int,
	maxPageSize int,
) *OrderUseCase {
	return &OrderUseCase{
		orders:          orders,
		items:           items,
		writer:          writer,
		publisher:       publisher,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID uint, requestingUserID *int) (*domain.Order, error) {
	order, err := uc.loadAuthorized(ctx, orderID, requestingUserID)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, order)
}

// ListOrders pages through orders. Non-trusted callers only ever see their own.
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter domain.OrderFilter, requestingUserID *int) ([]domain.Order, int, domain.OrderFilter, error) {
	var details []apperrors.ValidationDetail
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "unknown order status"})
	}
	if filter.PaymentStatus != "" && !domain.ValidPaymentStatus(filter.PaymentStatus) {
		details = append(details, apperrors.ValidationDetail{Field: "paymentStatus", Message: "unknown payment status"})
	}
	if len(details) > 0 {
		return nil, 0, filter, apperrors.NewValidationError("validation failed", details...)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = uc.defaultPageSize
	}
	if filter.Limit > uc.maxPageSize {
		filter.Limit = uc.maxPageSize
	}
	if requestingUserID != nil {
		userID := *requestingUserID
		filter.UserID = &userID
	}

	orders, total, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, filter, err
	}
	if len(orders) == 0 {
		return orders, total, filter, nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := uc.items.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, 0, filter, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, total, filter, nil
}

// UpdateOrder changes descriptive fields only. Cancellation has its own
// operation because it moves stock.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, orderID uint, patch domain.OrderPatch, requestingUserID *int) (*domain.Order, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if err := uc.writer.Update(ctx, orderID, requestingUserID, patch); err != nil {
		return nil, err
	}

	uc.logger.Info("order updated", zap.Uint("orderId", orderID))
	return uc.GetOrder(ctx, orderID, nil)
}

func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID uint, requestingUserID *int) (*domain.Order, error) {
	if _, err := uc.loadAuthorized(ctx, orderID, requestingUserID); err != nil {
		return nil, err
	}

	cancelled, err := uc.writer.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.publisher, uc.logger, events.TypeOrderCancelled, *cancelled, "")

	return uc.withItems(ctx, cancelled)
}

func (uc *OrderUseCase) DeleteOrder(ctx context.Context, orderID uint, requestingUserID *int, restoreStock bool) error {
	if _, err := uc.loadAuthorized(ctx, orderID, requestingUserID); err != nil {
		return err
	}
	return uc.writer.Delete(ctx, orderID, restoreStock)
}

func (uc *OrderUseCase) loadAuthorized(ctx context.Context, orderID uint, requestingUserID *int) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(order, requestingUserID); err != nil {
		uc.logger.Warn("order access denied", zap.Uint("orderId", orderID), zap.Int("requestingUserId", *requestingUserID))
		return nil, err
	}
	return order, nil
}

func (uc *OrderUseCase) withItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := uc.items.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func validatePatch(patch domain.OrderPatch) error {
	if patch.IsEmpty() {
		return apperrors.NewValidationError("no updatable fields given")
	}

	var details []apperrors.ValidationDetail
	if patch.Status != nil {
		switch {
		case *patch.Status == domain.OrderStatusCancelled:
			details = append(details, apperrors.ValidationDetail{Field: "status", Message: "use the cancel operation to cancel an order"})
		case !domain.ValidOrderStatus(*patch.Status):
			details = append(details, apperrors.ValidationDetail{Field: "status", Message: "unknown order status"})
		}
	}
	if patch.PaymentStatus != nil && !domain.ValidPaymentStatus(*patch.PaymentStatus) {
		details = append(details, apperrors.ValidationDetail{Field: "paymentStatus", Message: "unknown payment status"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
