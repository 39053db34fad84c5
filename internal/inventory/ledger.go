// Package inventory owns every change to product quantities.
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
)

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
)

func (op StockOperation) Valid() bool {
	switch op {
	case StockAdd, StockSubtract, StockSet:
		return true
	}
	return false
}

type StockRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error)
	// DecrementQuantity only succeeds when quantity >= amount; it reports false otherwise.
	DecrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) (bool, error)
	// IncrementQuantity skips untracked and external-url products.
	IncrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) error
	SetQuantity(ctx context.Context, tx *sql.Tx, productID int, quantity int) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type Ledger struct {
	repo   StockRepository
	txr    TxRunner
	logger *zap.Logger
}

func NewLedger(repo StockRepository, txr TxRunner, logger *zap.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		txr:    txr,
		logger: logger,
	}
}

// Reserve takes quantity units of a product that the caller already locked in tx.
func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, product domain.Product, quantity int) error {
	if !product.StockTracked() {
		return nil
	}

	ok, err := l.repo.DecrementQuantity(ctx, tx, product.ID, quantity)
	if err != nil {
		return fmt.Errorf("reserving product %d: %w", product.ID, err)
	}
	if !ok {
		return apperrors.NewInsufficientStockError(product.ID, quantity, product.AvailableStock())
	}

	l.logger.Debug("stock reserved", zap.Int("productId", product.ID), zap.Int("quantity", quantity))
	return nil
}

func (l *Ledger) Release(ctx context.Context, tx *sql.Tx, productID int, quantity int) error {
	if err := l.repo.IncrementQuantity(ctx, tx, productID, quantity); err != nil {
		return fmt.Errorf("releasing product %d: %w", productID, err)
	}

	l.logger.Debug("stock released", zap.Int("productId", productID), zap.Int("quantity", quantity))
	return nil
}

// UpdateStock is the manual stock adjustment used outside the order flow.
// Subtracting below zero clamps to zero.
func (l *Ledger) UpdateStock(ctx context.Context, productID int, quantity int, op StockOperation) (*domain.Product, error) {
	if !op.Valid() {
		return nil, apperrors.NewValidationError("invalid stock operation", apperrors.ValidationDetail{
			Field:   "operation",
			Message: "operation must be one of add, subtract, set",
		})
	}
	if quantity < 0 {
		return nil, apperrors.NewValidationError("quantity must be non-negative", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be non-negative",
		})
	}

	var updated *domain.Product
	err := l.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		product, err := l.repo.FindByIDForUpdate(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product.HasExternalURL() {
			return apperrors.NewProductNotOrderableError(productID, domain.ReasonExternalURL)
		}

		current := 0
		if product.Quantity != nil {
			current = *product.Quantity
		}

		next := applyStockOperation(current, quantity, op)
		if err := l.repo.SetQuantity(ctx, tx, productID, next); err != nil {
			return err
		}

		product.Quantity = &next
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("stock updated",
		zap.Int("productId", productID),
		zap.String("operation", string(op)),
		zap.Int("quantity", quantity),
		zap.Int("newQuantity", *updated.Quantity),
	)
	return updated, nil
}

func applyStockOperation(current, quantity int, op StockOperation) int {
	switch op {
	case StockAdd:
		return current + quantity
	case StockSubtract:
		if current-quantity < 0 {
			return 0
		}
		return current - quantity
	default:
		return quantity
	}
}
