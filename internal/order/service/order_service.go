package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

// OrderService owns every write to an existing order. Each operation runs in
// its own transaction with the order row locked.
type OrderService struct {
	txr           TxRunner
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	ledger        StockLedger
	logger        *zap.Logger
}

func NewOrderService(
	txr TxRunner,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txr:           txr,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		ledger:        ledger,
		logger:        logger,
	}
}

// Cancel releases the order's reservation and marks it cancelled. Cancelling
// twice is rejected rather than ignored.
func (s *OrderService) Cancel(ctx context.Context, orderID uint) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.IsCancelled() {
			return apperrors.NewOrderAlreadyCancelledError(orderID)
		}

		if _, err := s.releaseReservation(ctx, tx, orderID); err != nil {
			return err
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, domain.OrderStatusCancelled); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCancelled
		order.StockReserved = false
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled", zap.Uint("orderId", orderID))
	return cancelled, nil
}

// Delete soft deletes the order, releasing its reservation first when
// restoreStock is set.
func (s *OrderService) Delete(ctx context.Context, orderID uint, restoreStock bool) error {
	err := s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID); err != nil {
			return err
		}
		if restoreStock {
			if _, err := s.releaseReservation(ctx, tx, orderID); err != nil {
				return err
			}
		}
		return s.orderRepo.SoftDelete(ctx, tx, orderID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.Uint("orderId", orderID), zap.Bool("restoreStock", restoreStock))
	return nil
}

// Update applies patch with the order row locked. A non-nil requestingUserID
// must own the order; nil is a trusted caller.
func (s *OrderService) Update(ctx context.Context, orderID uint, requestingUserID *int, patch domain.OrderPatch) error {
	return s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if requestingUserID != nil && !order.IsOwnedBy(*requestingUserID) {
			return apperrors.NewOrderAuthorizationError(orderID, *requestingUserID)
		}
		return s.orderRepo.ApplyPatch(ctx, tx, orderID, patch)
	})
}

// RecordPayment stores a paid or pending gateway outcome.
func (s *OrderService) RecordPayment(ctx context.Context, orderID uint, paymentStatus string, transactionID string) error {
	method := domain.PaymentMethodCreditCard
	return s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.orderRepo.UpdatePayment(ctx, tx, orderID, paymentStatus, &method, optional(transactionID))
	})
}

// MarkPaymentFailed records a failed attempt and gives the reserved stock
// back in the same transaction. It reports whether stock was released.
func (s *OrderService) MarkPaymentFailed(ctx context.Context, orderID uint, transactionID string) (bool, error) {
	method := domain.PaymentMethodCreditCard
	var released bool
	err := s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.orderRepo.UpdatePayment(ctx, tx, orderID, domain.PaymentStatusFailed, &method, optional(transactionID)); err != nil {
			return err
		}

		var err error
		released, err = s.releaseReservation(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("payment marked failed",
		zap.Uint("orderId", orderID),
		zap.String("transactionId", transactionID),
		zap.Bool("stockReleased", released),
	)
	return released, nil
}

// releaseReservation gives every item back to inventory unless that already
// happened for this order.
func (s *OrderService) releaseReservation(ctx context.Context, tx *sql.Tx, orderID uint) (bool, error) {
	first, err := s.orderRepo.MarkStockReleased(ctx, tx, orderID)
	if err != nil {
		return false, err
	}
	if !first {
		s.logger.Debug("stock already released", zap.Uint("orderId", orderID))
		return false, nil
	}

	items, err := s.orderItemRepo.FindByOrderIDTx(ctx, tx, orderID)
	if err != nil {
		return false, fmt.Errorf("loading items of order %d: %w", orderID, err)
	}
	for _, item := range items {
		if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return false, err
		}
	}
	return true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
