package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vitashop/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

func (r *MySQLOrderItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	query := `
		INSERT INTO OrderItems (orderId, productId, quantity, unitPrice, discount, total)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Discount, item.Total,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

// FindByOrderIDs groups the items of every given order by order id.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderItem, error) {
	return findByOrderIDs(ctx, r.db, orderIDs)
}

func findByOrderIDs(ctx context.Context, q queryer, orderIDs []uint) (map[uint][]domain.OrderItem, error) {
	items := make(map[uint][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, orderId, productId, quantity, unitPrice, discount, total
		FROM OrderItems
		WHERE orderId IN (%s)
		ORDER BY orderId, id
	`, strings.Join(placeholders, ", "))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Discount, &item.Total,
		); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	items, err := r.FindByOrderIDs(ctx, []uint{orderID})
	if err != nil {
		return nil, err
	}
	return items[orderID], nil
}

// FindByOrderIDTx reads the items on tx's connection. Writers that already hold
// a transaction must use it instead of FindByOrderID, which would wait for a
// second pooled connection.
func (r *MySQLOrderItemRepository) FindByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderItem, error) {
	items, err := findByOrderIDs(ctx, tx, []uint{orderID})
	if err != nil {
		return nil, err
	}
	return items[orderID], nil
}
