package postgres

import (
	"context"
	"fmt"

	"okazjeplus/business/interaction"
	"okazjeplus/business/segmentation"
	"okazjeplus/domain"

	"gorm.io/gorm"
)

type InteractionRepository struct {
	DB *gorm.DB
}

var (
	_ segmentation.InteractionRepository = (*InteractionRepository)(nil)
	_ interaction.Repository             = (*InteractionRepository)(nil)
)

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Create(ctx context.Context, in *domain.Interaction) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}

// ListRecentByUser is served by idx_interactions_user_time.
func (r *InteractionRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.Interaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	return rows, nil
}
