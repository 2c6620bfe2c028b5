package domain

import "time"

type SegmentType string

const (
	SegmentPriceSensitive SegmentType = "price_sensitive"
	SegmentFastDelivery   SegmentType = "fast_delivery"
	SegmentBrandLover     SegmentType = "brand_lover"
	SegmentDealHunter     SegmentType = "deal_hunter"
	SegmentQualitySeeker  SegmentType = "quality_seeker"
	SegmentImpulseBuyer   SegmentType = "impulse_buyer"
)

// SegmentTypes lists every segment in a stable order.
var SegmentTypes = []SegmentType{
	SegmentPriceSensitive,
	SegmentFastDelivery,
	SegmentBrandLover,
	SegmentDealHunter,
	SegmentQualitySeeker,
	SegmentImpulseBuyer,
}

func (s SegmentType) Valid() bool {
	for _, t := range SegmentTypes {
		if s == t {
			return true
		}
	}
	return false
}

type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

type SegmentCharacteristics struct {
	AvgPricePoint       *float64      `json:"avg_price_point,omitempty"`
	CategoryPreferences []string      `json:"category_preferences"`
	DealPreferences     []string      `json:"deal_preferences"`
	ActivityLevel       ActivityLevel `json:"activity_level"`
	ConversionRate      float64       `json:"conversion_rate"`
}

// UserSegment is keyed by user id (ID == UserID). Version starts at 1 and
// grows by one on every recomputation.
type UserSegment struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	SegmentType     SegmentType            `json:"segment_type"`
	Confidence      float64                `json:"confidence"`
	Characteristics SegmentCharacteristics `json:"characteristics"`
	GeneratedAt     time.Time              `json:"generated_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

type SegmentCount struct {
	SegmentType SegmentType `json:"segment_type" gorm:"column:segment_type"`
	Users       int64       `json:"users" gorm:"column:users"`
}
