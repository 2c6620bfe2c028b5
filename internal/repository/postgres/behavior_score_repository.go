package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"okazjeplus/business/segmentation"
	"okazjeplus/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BehaviorScoreRow keeps one row per user; every recalculation overwrites it.
type BehaviorScoreRow struct {
	UserID              string    `gorm:"column:user_id;type:text;primaryKey"`
	PriceSensitivity    int       `gorm:"column:price_sensitivity;not null"`
	BrandLoyalty        int       `gorm:"column:brand_loyalty;not null"`
	QualityFocus        int       `gorm:"column:quality_focus;not null"`
	SpeedPriority       int       `gorm:"column:speed_priority;not null"`
	EngagementLevel     int       `gorm:"column:engagement_level;not null"`
	ConversionPotential int       `gorm:"column:conversion_potential;not null"`
	BasedOnInteractions int       `gorm:"column:based_on_interactions;not null"`
	CalculatedAt        time.Time `gorm:"column:calculated_at;not null"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime:false;not null"`
}

func (BehaviorScoreRow) TableName() string {
	return "user_behavior_scores"
}

func behaviorScoreRowFrom(s domain.BehaviorScore) BehaviorScoreRow {
	return BehaviorScoreRow{
		UserID:              s.UserID,
		PriceSensitivity:    s.Scores.PriceSensitivity,
		BrandLoyalty:        s.Scores.BrandLoyalty,
		QualityFocus:        s.Scores.QualityFocus,
		SpeedPriority:       s.Scores.SpeedPriority,
		EngagementLevel:     s.Scores.EngagementLevel,
		ConversionPotential: s.Scores.ConversionPotential,
		BasedOnInteractions: s.BasedOnInteractions,
		CalculatedAt:        s.CalculatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (r BehaviorScoreRow) toDomain() domain.BehaviorScore {
	return domain.BehaviorScore{
		UserID: r.UserID,
		Scores: domain.BehaviorScores{
			PriceSensitivity:    r.PriceSensitivity,
			BrandLoyalty:        r.BrandLoyalty,
			QualityFocus:        r.QualityFocus,
			SpeedPriority:       r.SpeedPriority,
			EngagementLevel:     r.EngagementLevel,
			ConversionPotential: r.ConversionPotential,
		},
		BasedOnInteractions: r.BasedOnInteractions,
		CalculatedAt:        r.CalculatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}

type BehaviorScoreRepository struct {
	DB *gorm.DB
}

var _ segmentation.BehaviorScoreRepository = (*BehaviorScoreRepository)(nil)

func NewBehaviorScoreRepository(db *gorm.DB) *BehaviorScoreRepository {
	return &BehaviorScoreRepository{DB: db}
}

func (r *BehaviorScoreRepository) GetScore(ctx context.Context, userID string) (domain.BehaviorScore, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.BehaviorScore{}, false, fmt.Errorf("context error: %w", err)
	}

	var row BehaviorScoreRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.BehaviorScore{}, false, nil
	}
	if err != nil {
		return domain.BehaviorScore{}, false, fmt.Errorf("failed to query behavior score: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BehaviorScoreRepository) SaveScore(ctx context.Context, score domain.BehaviorScore) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := behaviorScoreRowFrom(score)
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price_sensitivity",
				"brand_loyalty",
				"quality_focus",
				"speed_priority",
				"engagement_level",
				"conversion_potential",
				"based_on_interactions",
				"calculated_at",
				"updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save behavior score: %w", err)
	}

	return nil
}
