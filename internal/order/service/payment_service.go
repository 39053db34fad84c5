package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vitashop/internal/config"
	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/infrastructure/redis"
	"vitashop/internal/pricing"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentOutcome, error)
	GetCharge(ctx context.Context, chargeID string) (*domain.PaymentOutcome, error)
	CaptureCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error)
	RefundCharge(ctx context.Context, chargeID string, amountCents *int64) (*domain.PaymentOutcome, error)
	CreateRecipient(ctx context.Context, r domain.Recipient) (*domain.Recipient, error)
	GetRecipient(ctx context.Context, recipientID string) (*domain.Recipient, error)
	ListRecipients(ctx context.Context, page, size int) ([]domain.Recipient, int, error)
}

type SplitPolicy interface {
	Rules(ctx context.Context) ([]domain.SplitRule, error)
}

type ProductLookup interface {
	GetProductMap(ctx context.Context, ids []int) (map[int]domain.Product, error)
}

type PaymentRecorder interface {
	RecordPayment(ctx context.Context, orderID uint, paymentStatus string, transactionID string) error
	MarkPaymentFailed(ctx context.Context, orderID uint, transactionID string) (bool, error)
}

type PaymentService struct {
	gateway   PaymentGateway
	recorder  PaymentRecorder
	split     SplitPolicy
	products  ProductLookup
	cache     redis.Cache
	cfg       config.PaymentConfig
	statusTTL time.Duration
	logger    *zap.Logger
}

func NewPaymentService(
	gateway PaymentGateway,
	recorder PaymentRecorder,
	split SplitPolicy,
	products ProductLookup,
	cache redis.Cache,
	cfg config.PaymentConfig,
	statusTTL time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		recorder:  recorder,
		split:     split,
		products:  products,
		cache:     cache,
		cfg:       cfg,
		statusTTL: statusTTL,
		logger:    logger,
	}
}

// Charge attempts payment for order and reconciles it with the outcome. On
// any failure, declined or otherwise, the order is marked failed and its stock
// released before the error is returned.
func (s *PaymentService) Charge(ctx context.Context, order domain.Order, user domain.User, card domain.CardData, billing domain.Address) (*domain.Order, error) {
	logger := s.logger.With(zap.Uint("orderId", order.ID))
	// Reconciliation must finish even if the caller goes away mid-charge.
	reconcileCtx := context.WithoutCancel(ctx)

	req, err := s.buildRequest(ctx, order, user, card, billing)
	if err != nil {
		return nil, s.fail(reconcileCtx, logger, order.ID, "", err)
	}

	outcome, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, s.fail(reconcileCtx, logger, order.ID, "", err)
	}

	if outcome.Status == domain.PaymentStatusFailed {
		declined := apperrors.NewPaymentDeclinedError(order.ID, outcome.ID, outcome.RawStatus)
		return nil, s.fail(reconcileCtx, logger, order.ID, outcome.ID, declined)
	}

	if err := s.recorder.RecordPayment(reconcileCtx, order.ID, outcome.Status, outcome.ID); err != nil {
		logger.Error("failed to record payment outcome",
			zap.String("transactionId", outcome.ID),
			zap.String("status", outcome.Status),
			zap.Error(err),
		)
		return nil, err
	}

	method := domain.PaymentMethodCreditCard
	order.PaymentStatus = outcome.Status
	order.PaymentMethod = &method
	if outcome.ID != "" {
		id := outcome.ID
		order.PaymentTransactionID = &id
	}

	logger.Info("payment reconciled",
		zap.String("transactionId", outcome.ID),
		zap.String("status", outcome.Status),
		zap.String("rawStatus", outcome.RawStatus),
	)
	return &order, nil
}

func (s *PaymentService) fail(ctx context.Context, logger *zap.Logger, orderID uint, transactionID string, cause error) error {
	logger.Warn("payment attempt failed", zap.String("transactionId", transactionID), zap.Error(cause))

	if _, err := s.recorder.MarkPaymentFailed(ctx, orderID, transactionID); err != nil {
		logger.Error("failed to reconcile order after payment failure", zap.Error(err))
		return errors.Join(cause, fmt.Errorf("reconciling order %d: %w", orderID, err))
	}
	return cause
}

func (s *PaymentService) buildRequest(ctx context.Context, order domain.Order, user domain.User, card domain.CardData, billing domain.Address) (domain.PaymentRequest, error) {
	if billing.Country == "" {
		billing.Country = s.cfg.DefaultCountry
	}

	customer, err := ResolveCustomer(user, card, billing.Country, s.cfg.PlaceholderPhone)
	if err != nil {
		return domain.PaymentRequest{}, err
	}

	rules, err := s.split.Rules(ctx)
	if err != nil {
		return domain.PaymentRequest{}, fmt.Errorf("resolving payment split: %w", err)
	}

	return domain.PaymentRequest{
		Code:           strconv.FormatUint(uint64(order.ID), 10),
		AmountCents:    pricing.ToMinorUnits(order.Total),
		Card:           card,
		Customer:       customer,
		BillingAddress: billing,
		Items:          s.lineItems(ctx, order.Items),
		Metadata: map[string]string{
			"orderId": strconv.FormatUint(uint64(order.ID), 10),
			"userId":  strconv.Itoa(order.UserID),
		},
		Split: rules,
	}, nil
}

// lineItems describes the order to the gateway. Product names are cosmetic,
// so a failed lookup falls back to generic titles.
func (s *PaymentService) lineItems(ctx context.Context, items []domain.OrderItem) []domain.LineItem {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetProductMap(ctx, ids)
	if err != nil {
		s.logger.Warn("could not load product names for payment", zap.Error(err))
	}

	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		title := fmt.Sprintf("Product %d", item.ProductID)
		if p, ok := products[item.ProductID]; ok && p.Name != "" {
			title = p.Name
		}
		out = append(out, domain.LineItem{
			ID:             strconv.Itoa(item.ProductID),
			Title:          title,
			UnitPriceCents: pricing.ToMinorUnits(item.UnitPrice),
			Quantity:       item.Quantity,
		})
	}
	return out
}

// GetPaymentStatus reads through the status cache. Cache failures only cost a
// gateway round trip.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, transactionID string) (*domain.PaymentOutcome, error) {
	key := s.cache.GenerateKey("payment-status", transactionID)

	var cached domain.PaymentOutcome
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("payment status cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	outcome, err := s.gateway.GetCharge(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, outcome, s.statusTTL); err != nil {
		s.logger.Warn("payment status cache write failed", zap.String("key", key), zap.Error(err))
	}
	return outcome, nil
}

func (s *PaymentService) CaptureTransaction(ctx context.Context, transactionID string, amount *decimal.Decimal) (*domain.PaymentOutcome, error) {
	cents, err := optionalCents(amount)
	if err != nil {
		return nil, err
	}

	outcome, err := s.gateway.CaptureCharge(ctx, transactionID, cents)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, transactionID)
	s.logger.Info("transaction captured", zap.String("transactionId", transactionID), zap.String("status", outcome.Status))
	return outcome, nil
}

func (s *PaymentService) RefundTransaction(ctx context.Context, transactionID string, amount *decimal.Decimal) (*domain.PaymentOutcome, error) {
	cents, err := optionalCents(amount)
	if err != nil {
		return nil, err
	}

	outcome, err := s.gateway.RefundCharge(ctx, transactionID, cents)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, transactionID)
	s.logger.Info("transaction refunded", zap.String("transactionId", transactionID), zap.String("status", outcome.Status))
	return outcome, nil
}

func (s *PaymentService) invalidate(ctx context.Context, transactionID string) {
	key := s.cache.GenerateKey("payment-status", transactionID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("payment status cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

func optionalCents(amount *decimal.Decimal) (*int64, error) {
	if amount == nil {
		return nil, nil
	}
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive", apperrors.ValidationDetail{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}
	cents := pricing.ToMinorUnits(*amount)
	return &cents, nil
}

func (s *PaymentService) CreateRecipient(ctx context.Context, r domain.Recipient) (*domain.Recipient, error) {
	return s.gateway.CreateRecipient(ctx, r)
}

func (s *PaymentService) GetRecipient(ctx context.Context, recipientID string) (*domain.Recipient, error) {
	return s.gateway.GetRecipient(ctx, recipientID)
}

func (s *PaymentService) ListRecipients(ctx context.Context, page, size int) ([]domain.Recipient, int, error) {
	return s.gateway.ListRecipients(ctx, page, size)
}
