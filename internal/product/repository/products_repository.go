package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vitashop/internal/domain"
	"vitashop/internal/errors"
)

const productColumns = `id, name, description, price, quantity, externalUrl, status,
		       createdAt, updatedAt, deletedAt`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var description sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &description, &p.Price, &p.Quantity, &p.ExternalURL, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	return &p, nil
}

func inClause(ids []int) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}

// FindByIDs returns the non-deleted products among ids, in id order.
func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(ids)
	query := fmt.Sprintf(`
		SELECT %s
		FROM Products
		WHERE id IN (%s)
		  AND deletedAt IS NULL
		ORDER BY id`,
		productColumns, placeholders,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM Products
		WHERE id = ?
		  AND deletedAt IS NULL
		FOR UPDATE`,
		productColumns,
	)

	p, err := scanProduct(tx.QueryRowContext(ctx, query, productID))
	if err == sql.ErrNoRows {
		return nil, errors.NewProductNotFoundError(productID)
	}
	if err != nil {
		return nil, fmt.Errorf("locking product %d: %w", productID, err)
	}

	return p, nil
}

func (r *MySQLRepository) DecrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) (bool, error) {
	query := `
		UPDATE Products
		SET quantity = quantity - ?
		WHERE id = ?
		  AND quantity IS NOT NULL
		  AND quantity >= ?`

	result, err := tx.ExecContext(ctx, query, amount, productID, amount)
	if err != nil {
		return false, fmt.Errorf("decrementing product quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *MySQLRepository) IncrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) error {
	query := `
		UPDATE Products
		SET quantity = quantity + ?
		WHERE id = ?
		  AND quantity IS NOT NULL
		  AND (externalUrl IS NULL OR externalUrl = '')`

	if _, err := tx.ExecContext(ctx, query, amount, productID); err != nil {
		return fmt.Errorf("incrementing product quantity: %w", err)
	}
	return nil
}

func (r *MySQLRepository) SetQuantity(ctx context.Context, tx *sql.Tx, productID int, quantity int) error {
	query := `UPDATE Products SET quantity = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, quantity, productID); err != nil {
		return fmt.Errorf("setting product quantity: %w", err)
	}
	return nil
}
