package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vitashop/internal/domain"
	"vitashop/internal/errors"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// FindByID loads the account together with its person profile. Deleted
// accounts are reported as not found.
func (r *MySQLUserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT u.id, u.email, COALESCE(p.firstName, ''), COALESCE(p.lastName, ''),
		       p.document, p.phone, u.deletedAt
		FROM Users u
		LEFT JOIN Persons p ON p.userId = u.id
		WHERE u.id = ?
	`

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Document, &user.Phone, &user.DeletedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	if user.IsDeleted() {
		return nil, errors.NewUserNotFoundError(id)
	}

	return &user, nil
}
