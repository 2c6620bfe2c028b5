package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"okazjeplus/business/segmentation"
	"okazjeplus/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSegmentRow is keyed by user id; the segment id is the user id too.
type UserSegmentRow struct {
	UserID              string                      `gorm:"column:user_id;type:text;primaryKey"`
	SegmentType         string                      `gorm:"column:segment_type;type:text;not null;index"`
	Confidence          float64                     `gorm:"column:confidence;not null"`
	AvgPricePoint       *float64                    `gorm:"column:avg_price_point"`
	CategoryPreferences datatypes.JSONSlice[string] `gorm:"column:category_preferences;type:jsonb"`
	DealPreferences     datatypes.JSONSlice[string] `gorm:"column:deal_preferences;type:jsonb"`
	ActivityLevel       string                      `gorm:"column:activity_level;type:text;not null"`
	ConversionRate      float64                     `gorm:"column:conversion_rate;not null"`
	Version             int                         `gorm:"column:version;not null"`
	GeneratedAt         time.Time                   `gorm:"column:generated_at;not null"`
	UpdatedAt           time.Time                   `gorm:"column:updated_at;autoUpdateTime:false;not null"`
}

func (UserSegmentRow) TableName() string {
	return "user_segments"
}

func userSegmentRowFrom(s domain.UserSegment) UserSegmentRow {
	return UserSegmentRow{
		UserID:              s.UserID,
		SegmentType:         string(s.SegmentType),
		Confidence:          s.Confidence,
		AvgPricePoint:       s.Characteristics.AvgPricePoint,
		CategoryPreferences: datatypes.NewJSONSlice(s.Characteristics.CategoryPreferences),
		DealPreferences:     datatypes.NewJSONSlice(s.Characteristics.DealPreferences),
		ActivityLevel:       string(s.Characteristics.ActivityLevel),
		ConversionRate:      s.Characteristics.ConversionRate,
		Version:             s.Version,
		GeneratedAt:         s.GeneratedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (r UserSegmentRow) toDomain() domain.UserSegment {
	return domain.UserSegment{
		ID:          r.UserID,
		UserID:      r.UserID,
		SegmentType: domain.SegmentType(r.SegmentType),
		Confidence:  r.Confidence,
		Characteristics: domain.SegmentCharacteristics{
			AvgPricePoint:       r.AvgPricePoint,
			CategoryPreferences: []string(r.CategoryPreferences),
			DealPreferences:     []string(r.DealPreferences),
			ActivityLevel:       domain.ActivityLevel(r.ActivityLevel),
			ConversionRate:      r.ConversionRate,
		},
		GeneratedAt: r.GeneratedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		Version:     r.Version,
	}
}

type UserSegmentRepository struct {
	DB *gorm.DB
}

var _ segmentation.SegmentRepository = (*UserSegmentRepository)(nil)

func NewUserSegmentRepository(db *gorm.DB) *UserSegmentRepository {
	return &UserSegmentRepository{DB: db}
}

func (r *UserSegmentRepository) GetSegment(ctx context.Context, userID string) (domain.UserSegment, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSegment{}, false, fmt.Errorf("context error: %w", err)
	}

	var row UserSegmentRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserSegment{}, false, nil
	}
	if err != nil {
		return domain.UserSegment{}, false, fmt.Errorf("failed to query user segment: %w", err)
	}

	return row.toDomain(), true, nil
}

// UpsertSegment overwrites the user's row. Concurrent writers race and the
// last one wins.
func (r *UserSegmentRepository) UpsertSegment(ctx context.Context, segment domain.UserSegment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := userSegmentRowFrom(segment)
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"segment_type",
				"confidence",
				"avg_price_point",
				"category_preferences",
				"deal_preferences",
				"activity_level",
				"conversion_rate",
				"version",
				"generated_at",
				"updated_at",
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user segment: %w", err)
	}

	return nil
}

// CountBySegmentType reports how many users currently sit in each segment.
func (r *UserSegmentRepository) CountBySegmentType(ctx context.Context) ([]domain.SegmentCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []domain.SegmentCount
	err := r.DB.WithContext(ctx).
		Model(&UserSegmentRow{}).
		Select("segment_type, COUNT(*) AS users").
		Group("segment_type").
		Order("segment_type").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count user segments: %w", err)
	}

	return counts, nil
}
