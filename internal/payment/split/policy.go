// Package split decides how a charge is divided between the platform and a
// partner recipient.
package split

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	"vitashop/internal/errors"
)

type ConfigRepository interface {
	FindActive(ctx context.Context) (*Config, error)
}

type Policy struct {
	repo    ConfigRepository
	enabled bool
	logger  *zap.Logger
}

func NewPolicy(repo ConfigRepository, enabled bool, logger *zap.Logger) *Policy {
	return &Policy{
		repo:    repo,
		enabled: enabled,
		logger:  logger,
	}
}

// Rules returns the split for the next charge, or nil when splitting is off or
// not configured. The partner carries the configured percentage; the platform
// gets the remainder and absorbs the processing fee.
func (p *Policy) Rules(ctx context.Context) ([]domain.SplitRule, error) {
	if !p.enabled {
		return nil, nil
	}

	cfg, err := p.repo.FindActive(ctx)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, nil
		}
		return nil, err
	}

	// Both recipients are required: a split missing either side does not add
	// up to 100% and the gateway refuses the charge.
	if strings.TrimSpace(cfg.RecipientID) == "" || strings.TrimSpace(cfg.PlatformRecipientID) == "" ||
		cfg.Percentage <= 0 || cfg.Percentage >= 100 {
		p.logger.Warn("ignoring invalid payment split config",
			zap.Int("configId", cfg.ID),
			zap.Int("percentage", cfg.Percentage),
			zap.Bool("hasRecipient", strings.TrimSpace(cfg.RecipientID) != ""),
			zap.Bool("hasPlatformRecipient", strings.TrimSpace(cfg.PlatformRecipientID) != ""),
		)
		return nil, nil
	}

	return []domain.SplitRule{
		{
			RecipientID:         cfg.RecipientID,
			Percentage:          cfg.Percentage,
			ChargeProcessingFee: false,
			ChargeRemainderFee:  false,
			Liable:              true,
		},
		{
			RecipientID:         cfg.PlatformRecipientID,
			Percentage:          100 - cfg.Percentage,
			ChargeProcessingFee: true,
			ChargeRemainderFee:  true,
			Liable:              true,
		},
	}, nil
}
