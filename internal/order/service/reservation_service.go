package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/pricing"
)

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error)
}

type StockLedger interface {
	Reserve(ctx context.Context, tx *sql.Tx, product domain.Product, quantity int) error
	Release(ctx context.Context, tx *sql.Tx, productID int, quantity int) error
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderItem, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error)
	UpdatePayment(ctx context.Context, tx *sql.Tx, id uint, paymentStatus string, method, transactionID *string) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error
	ApplyPatch(ctx context.Context, tx *sql.Tx, id uint, patch domain.OrderPatch) error
	SoftDelete(ctx context.Context, tx *sql.Tx, id uint) error
	MarkStockReleased(ctx context.Context, tx *sql.Tx, id uint) (bool, error)
}

// OrderDraft is a validated create request that has not touched storage yet.
type OrderDraft struct {
	UserID          int
	Lines           []pricing.LineInput
	ShippingCost    decimal.Decimal
	Tax             decimal.Decimal
	ShippingAddress *string
	BillingAddress  *string
	Notes           *string
}

type ReservationService struct {
	txr           TxRunner
	productRepo   ProductRepository
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	ledger        StockLedger
	logger        *zap.Logger
}

func NewReservationService(
	txr TxRunner,
	productRepo ProductRepository,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		txr:           txr,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		ledger:        ledger,
		logger:        logger,
	}
}

// CreatePendingOrder persists the order, its items and every stock
// reservation in one transaction. Products are locked in ascending id order
// and revalidated under the lock, so two checkouts of the last unit cannot
// both succeed.
func (s *ReservationService) CreatePendingOrder(ctx context.Context, draft OrderDraft) (*domain.Order, error) {
	lines := append([]pricing.LineInput(nil), draft.Lines...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	var created *domain.Order
	err := s.txr.WithinTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		products := make(map[int]domain.Product, len(lines))
		for _, line := range lines {
			product, err := s.productRepo.FindByIDForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			if err := checkOrderable(*product, line.Quantity); err != nil {
				return err
			}
			products[product.ID] = *product
		}

		totals, err := pricing.Calculate(lines, products, draft.ShippingCost, draft.Tax)
		if err != nil {
			return err
		}

		order := domain.Order{
			UserID:          draft.UserID,
			Status:          domain.OrderStatusPending,
			Subtotal:        totals.Subtotal,
			ShippingCost:    totals.ShippingCost,
			Tax:             totals.Tax,
			Total:           totals.Total,
			PaymentStatus:   domain.PaymentStatusPending,
			ShippingAddress: draft.ShippingAddress,
			BillingAddress:  draft.BillingAddress,
			Notes:           draft.Notes,
			StockReserved:   true,
		}

		orderID, err := s.orderRepo.Insert(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = orderID

		for _, line := range totals.Lines {
			item := domain.OrderItem{
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Discount:  line.Discount,
				Total:     line.Total,
			}
			itemID, err := s.orderItemRepo.Insert(ctx, tx, item)
			if err != nil {
				return err
			}
			item.ID = itemID
			order.Items = append(order.Items, item)
		}

		for _, line := range lines {
			if err := s.ledger.Reserve(ctx, tx, products[line.ProductID], line.Quantity); err != nil {
				return err
			}
		}

		created = &order
		return nil
	})
	if err != nil {
		s.logger.Warn("order creation rolled back", zap.Int("userId", draft.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.Uint("orderId", created.ID),
		zap.Int("userId", created.UserID),
		zap.Int("itemCount", len(created.Items)),
		zap.String("total", created.Total.StringFixed(2)),
	)
	return created, nil
}

func checkOrderable(product domain.Product, quantity int) error {
	switch reason := product.OrderableReason(quantity); reason {
	case "":
		return nil
	case domain.ReasonNotFound:
		return apperrors.NewProductNotFoundError(product.ID)
	case domain.ReasonOutOfStock, domain.ReasonInsufficientStock:
		return apperrors.NewInsufficientStockError(product.ID, quantity, product.AvailableStock())
	default:
		return apperrors.NewProductNotOrderableError(product.ID, reason)
	}
}
