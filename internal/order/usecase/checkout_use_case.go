package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/events"
	"vitashop/internal/infrastructure/mysql"
	"vitashop/internal/order/service"
)

const maxOrderItems = 100

type UserRepository interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
}

type OrderItemReader interface {
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
	FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderItem, error)
}

type ReservationService interface {
	CreatePendingOrder(ctx context.Context, draft service.OrderDraft) (*domain.Order, error)
}

type PaymentCharger interface {
	Charge(ctx context.Context, order domain.Order, user domain.User, card domain.CardData, billing domain.Address) (*domain.Order, error)
}

// CreateOrderInput carries a new order and, optionally, what is needed to
// charge it in the same call.
type CreateOrderInput struct {
	Draft   service.OrderDraft
	Card    *domain.CardData
	Billing *domain.Address
}

type CheckoutUseCase struct {
	users            UserRepository
	orders           OrderReader
	items            OrderItemReader
	reservations     ReservationService
	payments         PaymentCharger
	publisher        events.Publisher
	logger           *zap.Logger
	maxRetryAttempts int
	backoffs         []time.Duration
}

func NewCheckoutUseCase(
	users UserRepository,
	orders OrderReader,
	items OrderItemReader,
	reservations ReservationService,
	payments PaymentCharger,
	publisher events.Publisher,
	logger *zap.Logger,
	maxRetryAttempts int,
) *CheckoutUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &CheckoutUseCase{
		users:            users,
		orders:           orders,
		items:            items,
		reservations:     reservations,
		payments:         payments,
		publisher:        publisher,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		// Delay before attempt 2, 3 and beyond.
		backoffs: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond},
	}
}

func (uc *CheckoutUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	uc.logger.Info("create order started", zap.Int("userId", in.Draft.UserID), zap.Int("itemCount", len(in.Draft.Lines)))

	if err := validateDraft(in.Draft); err != nil {
		return nil, err
	}

	user, err := uc.users.FindByID(ctx, in.Draft.UserID)
	if err != nil {
		return nil, err
	}

	order, err := uc.createWithRetry(ctx, in.Draft)
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.publisher, uc.logger, events.TypeOrderCreated, *order, "")

	if in.Card == nil || in.Billing == nil {
		return order, nil
	}
	return uc.charge(ctx, *order, *user, *in.Card, *in.Billing)
}

// ProcessPayment charges an order created earlier without card data. An order
// whose gateway charge is still pending is refused so the card is not charged
// twice; its status is settled through the payment status endpoint.
func (uc *CheckoutUseCase) ProcessPayment(ctx context.Context, orderID uint, requestingUserID *int, card domain.CardData, billing domain.Address) (*domain.Order, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorize(order, requestingUserID); err != nil {
		return nil, err
	}

	switch {
	case order.IsCancelled():
		return nil, apperrors.NewOrderAlreadyCancelledError(orderID)
	case order.PaymentStatus == domain.PaymentStatusPaid:
		return nil, apperrors.NewConflictError(apperrors.CodeOrderAlreadyPaid, fmt.Sprintf("order %d is already paid", orderID))
	case order.PaymentStatus == domain.PaymentStatusPending && order.PaymentTransactionID != nil:
		uc.logger.Warn("refusing to charge order with a pending transaction",
			zap.Uint("orderId", orderID),
			zap.String("transactionId", *order.PaymentTransactionID),
		)
		return nil, apperrors.NewConflictError(apperrors.CodePaymentInProgress,
			fmt.Sprintf("order %d has pending transaction %s", orderID, *order.PaymentTransactionID))
	case !order.StockReserved:
		return nil, apperrors.NewConflictError(apperrors.CodeStockReleased, fmt.Sprintf("order %d no longer holds its stock; place a new order", orderID))
	}

	items, err := uc.items.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	user, err := uc.users.FindByID(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	return uc.charge(ctx, *order, *user, card, billing)
}

func (uc *CheckoutUseCase) charge(ctx context.Context, order domain.Order, user domain.User, card domain.CardData, billing domain.Address) (*domain.Order, error) {
	charged, err := uc.payments.Charge(ctx, order, user, card, billing)
	if err != nil {
		order.PaymentStatus = domain.PaymentStatusFailed
		if pde, ok := apperrors.IsPaymentDeclinedError(err); ok && pde.TransactionID != "" {
			order.PaymentTransactionID = &pde.TransactionID
		}
		publish(context.WithoutCancel(ctx), uc.publisher, uc.logger, events.TypeOrderPaymentFailed, order, err.Error())
		return nil, err
	}

	if charged.PaymentStatus == domain.PaymentStatusPaid {
		publish(ctx, uc.publisher, uc.logger, events.TypeOrderPaid, *charged, "")
	}
	return charged, nil
}

func (uc *CheckoutUseCase) createWithRetry(ctx context.Context, draft service.OrderDraft) (*domain.Order, error) {
	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		order, err := uc.reservations.CreatePendingOrder(ctx, draft)
		if err == nil {
			return order, nil
		}
		if !mysql.IsDeadlockError(err) {
			return nil, err
		}
		if attempt == uc.maxRetryAttempts {
			break
		}

		wait := uc.backoff(attempt)
		uc.logger.Warn("deadlock detected, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts),
			zap.Duration("wait", wait),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

// backoff returns the delay after a failed attempt with ±20% jitter.
func (uc *CheckoutUseCase) backoff(attempt int) time.Duration {
	if len(uc.backoffs) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx >= len(uc.backoffs) {
		idx = len(uc.backoffs) - 1
	}
	base := uc.backoffs[idx]
	jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
	return base + jitter
}

func validateDraft(draft service.OrderDraft) error {
	var details []apperrors.ValidationDetail

	if draft.UserID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "userId", Message: "userId must be a positive integer"})
	}
	if len(draft.Lines) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items must not be empty"})
	}
	if len(draft.Lines) > maxOrderItems {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "items exceeds maximum of 100"})
	}

	seen := make(map[int]bool, len(draft.Lines))
	for idx, line := range draft.Lines {
		prefix := "items[" + strconv.Itoa(idx) + "]"
		if line.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "each productId must be a positive integer"})
		}
		if seen[line.ProductID] {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".productId", Message: "productId must not be duplicated"})
		}
		seen[line.ProductID] = true
		if line.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".quantity", Message: "quantity must be a positive integer"})
		}
		if line.Discount.IsNegative() {
			details = append(details, apperrors.ValidationDetail{Field: prefix + ".discount", Message: "discount must be non-negative"})
		}
	}

	if draft.ShippingCost.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "shippingCost", Message: "shippingCost must be non-negative"})
	}
	if draft.Tax.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "tax", Message: "tax must be non-negative"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
