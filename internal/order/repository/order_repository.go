package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vitashop/internal/domain"
	"vitashop/internal/errors"
)

const orderColumns = `id, userId, status, subtotal, shippingCost, tax, total, paymentMethod,
		       paymentStatus, paymentTransactionId, shippingAddress, billingAddress, notes,
		       trackingNumber, stockReserved, createdAt, updatedAt, deletedAt`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.ShippingCost, &o.Tax, &o.Total, &o.PaymentMethod,
		&o.PaymentStatus, &o.PaymentTransactionID, &o.ShippingAddress, &o.BillingAddress, &o.Notes,
		&o.TrackingNumber, &o.StockReserved, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (userId, status, subtotal, shippingCost, tax, total, paymentMethod,
		                    paymentStatus, shippingAddress, billingAddress, notes, stockReserved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.UserID, order.Status, order.Subtotal, order.ShippingCost, order.Tax, order.Total,
		order.PaymentMethod, order.PaymentStatus, order.ShippingAddress, order.BillingAddress,
		order.Notes, order.StockReserved,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// FindByID returns a non-deleted order without its items.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM Orders
		WHERE id = ?
		  AND deletedAt IS NULL
	`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewOrderNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate locks the order row for the rest of tx.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM Orders
		WHERE id = ?
		  AND deletedAt IS NULL
		FOR UPDATE
	`, orderColumns)

	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewOrderNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("locking order: %w", err)
	}

	return order, nil
}

func buildListWhere(filter domain.OrderFilter) (string, []interface{}) {
	conditions := []string{"deletedAt IS NULL"}
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, "userId = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.PaymentStatus != "" {
		conditions = append(conditions, "paymentStatus = ?")
		args = append(args, filter.PaymentStatus)
	}

	return strings.Join(conditions, " AND "), args
}

// List returns one page of orders, newest first, and the total match count.
func (r *MySQLOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	where, args := buildListWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM Orders WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM Orders
		WHERE %s
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?
	`, orderColumns, where)

	pageArgs := append(append([]interface{}{}, args...), filter.Limit, filter.Offset())
	rows, err := r.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, total, nil
}

// UpdatePayment records the outcome of a payment attempt. A nil method or
// transaction id leaves the stored value untouched.
func (r *MySQLOrderRepository) UpdatePayment(ctx context.Context, tx *sql.Tx, id uint, paymentStatus string, method, transactionID *string) error {
	query := `
		UPDATE Orders
		SET paymentStatus = ?,
		    paymentMethod = COALESCE(?, paymentMethod),
		    paymentTransactionId = COALESCE(?, paymentTransactionId)
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query, paymentStatus, method, transactionID, id)
	if err != nil {
		return fmt.Errorf("updating order payment: %w", err)
	}

	return requireRow(result, id)
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error {
	query := `UPDATE Orders SET status = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return requireRow(result, id)
}

// ApplyPatch writes the non-nil fields of patch.
func (r *MySQLOrderRepository) ApplyPatch(ctx context.Context, tx *sql.Tx, id uint, patch domain.OrderPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("status", patch.Status)
	add("paymentStatus", patch.PaymentStatus)
	add("trackingNumber", patch.TrackingNumber)
	add("shippingAddress", patch.ShippingAddress)
	add("billingAddress", patch.BillingAddress)
	add("notes", patch.Notes)

	query := "UPDATE Orders SET " + strings.Join(sets, ", ") + " WHERE id = ? AND deletedAt IS NULL"
	args = append(args, id)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	return requireRow(result, id)
}

func (r *MySQLOrderRepository) SoftDelete(ctx context.Context, tx *sql.Tx, id uint) error {
	query := `UPDATE Orders SET deletedAt = NOW() WHERE id = ? AND deletedAt IS NULL`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft deleting order: %w", err)
	}

	return requireRow(result, id)
}

// MarkStockReleased flips stockReserved off and reports whether this call was
// the one that did it. Callers release inventory only on true.
func (r *MySQLOrderRepository) MarkStockReleased(ctx context.Context, tx *sql.Tx, id uint) (bool, error) {
	query := `UPDATE Orders SET stockReserved = 0 WHERE id = ? AND stockReserved = 1`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("marking order stock released: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// requireRow maps an update that matched nothing to not found. Connections
// use clientFoundRows, so matched rows count even when no value changed.
func requireRow(result sql.Result, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewOrderNotFoundError(id)
	}

	return nil
}
