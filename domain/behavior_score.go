package domain

import "time"

// BehaviorScores are six indicators, each an integer in [0, 100].
type BehaviorScores struct {
	PriceSensitivity    int `json:"price_sensitivity"`
	BrandLoyalty        int `json:"brand_loyalty"`
	QualityFocus        int `json:"quality_focus"`
	SpeedPriority       int `json:"speed_priority"`
	EngagementLevel     int `json:"engagement_level"`
	ConversionPotential int `json:"conversion_potential"`
}

type BehaviorScore struct {
	UserID              string         `json:"user_id"`
	Scores              BehaviorScores `json:"scores"`
	BasedOnInteractions int            `json:"based_on_interactions"`
	CalculatedAt        time.Time      `json:"calculated_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
