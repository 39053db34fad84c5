package split

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "vitashop/internal/errors"
)

type mockConfigRepository struct {
	findActiveFunc func(ctx context.Context) (*Config, error)
	calls          int
}

func (m *mockConfigRepository) FindActive(ctx context.Context) (*Config, error) {
	m.calls++
	return m.findActiveFunc(ctx)
}

func TestRules_Disabled(t *testing.T) {
	repo := &mockConfigRepository{}
	policy := NewPolicy(repo, false, zap.NewNop())

	rules, err := policy.Rules(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rules)
	assert.Equal(t, 0, repo.calls)
}

func TestRules_NoActiveConfig(t *testing.T) {
	repo := &mockConfigRepository{
		findActiveFunc: func(ctx context.Context) (*Config, error) {
			return nil, apperrors.NewNotFoundError("no active payment split config")
		},
	}
	policy := NewPolicy(repo, true, zap.NewNop())

	rules, err := policy.Rules(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestRules_PartnerAndPlatform(t *testing.T) {
	repo := &mockConfigRepository{
		findActiveFunc: func(ctx context.Context) (*Config, error) {
			return &Config{ID: 1, RecipientID: "rp_partner", PlatformRecipientID: "rp_platform", Percentage: 15, IsActive: true}, nil
		},
	}
	policy := NewPolicy(repo, true, zap.NewNop())

	rules, err := policy.Rules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "rp_partner", rules[0].RecipientID)
	assert.Equal(t, 15, rules[0].Percentage)
	assert.False(t, rules[0].ChargeProcessingFee)

	assert.Equal(t, "rp_platform", rules[1].RecipientID)
	assert.Equal(t, 85, rules[1].Percentage)
	assert.True(t, rules[1].ChargeProcessingFee)
}

func TestRules_InvalidPercentage(t *testing.T) {
	repo := &mockConfigRepository{
		findActiveFunc: func(ctx context.Context) (*Config, error) {
			return &Config{ID: 2, RecipientID: "rp_partner", PlatformRecipientID: "rp_platform", Percentage: 100}, nil
		},
	}
	policy := NewPolicy(repo, true, zap.NewNop())

	rules, err := policy.Rules(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestRules_RepositoryError(t *testing.T) {
	repo := &mockConfigRepository{
		findActiveFunc: func(ctx context.Context) (*Config, error) {
			return nil, errors.New("connection refused")
		},
	}
	policy := NewPolicy(repo, true, zap.NewNop())

	rules, err := policy.Rules(context.Background())
	assert.Error(t, err)
	assert.Nil(t, rules)
}

func TestRules_MissingRecipient(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"blank partner", Config{ID: 3, RecipientID: " ", PlatformRecipientID: "rp_platform", Percentage: 20}},
		{"blank platform", Config{ID: 4, RecipientID: "rp_partner", PlatformRecipientID: "", Percentage: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			repo := &mockConfigRepository{
				findActiveFunc: func(ctx context.Context) (*Config, error) {
					return &cfg, nil
				},
			}
			policy := NewPolicy(repo, true, zap.NewNop())

			rules, err := policy.Rules(context.Background())
			require.NoError(t, err)
			assert.Nil(t, rules)
		})
	}
}
