package split

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vitashop/internal/errors"
)

// Config is one row of PaymentSplitConfig.
type Config struct {
	ID                  int
	RecipientID         string
	PlatformRecipientID string
	Percentage          int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type MySQLConfigRepository struct {
	db *sql.DB
}

func NewMySQLConfigRepository(db *sql.DB) *MySQLConfigRepository {
	return &MySQLConfigRepository{db: db}
}

// FindActive returns the most recently updated active split configuration.
func (r *MySQLConfigRepository) FindActive(ctx context.Context) (*Config, error) {
	query := `
		SELECT id, recipientId, platformRecipientId, percentage, isActive, createdAt, updatedAt
		FROM PaymentSplitConfig
		WHERE isActive = 1
		ORDER BY updatedAt DESC, id DESC
		LIMIT 1
	`

	var cfg Config
	err := r.db.QueryRowContext(ctx, query).Scan(
		&cfg.ID, &cfg.RecipientID, &cfg.PlatformRecipientID, &cfg.Percentage, &cfg.IsActive,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("no active payment split config")
	}
	if err != nil {
		return nil, fmt.Errorf("querying active payment split config: %w", err)
	}

	return &cfg, nil
}
