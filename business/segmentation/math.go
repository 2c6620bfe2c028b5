package segmentation

import (
	"cmp"
	"math"
	"slices"

	"okazjeplus/domain"
)

const (
	minScore     = 0.0
	maxScore     = 100.0
	neutralScore = 50
)

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// toScore clamps v into [0, 100] and rounds half away from zero.
func toScore(v float64) int {
	return int(math.Round(clamp(v, minScore, maxScore)))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

type dimension string

const (
	dimPriceSensitivity    dimension = "price_sensitivity"
	dimBrandLoyalty        dimension = "brand_loyalty"
	dimQualityFocus        dimension = "quality_focus"
	dimSpeedPriority       dimension = "speed_priority"
	dimEngagementLevel     dimension = "engagement_level"
	dimConversionPotential dimension = "conversion_potential"
)

type rankedScore struct {
	dim   dimension
	value int
}

// rankScores orders the six scores highest first. Equal scores keep the
// field order of domain.BehaviorScores.
func rankScores(s domain.BehaviorScores) []rankedScore {
	ranked := []rankedScore{
		{dimPriceSensitivity, s.PriceSensitivity},
		{dimBrandLoyalty, s.BrandLoyalty},
		{dimQualityFocus, s.QualityFocus},
		{dimSpeedPriority, s.SpeedPriority},
		{dimEngagementLevel, s.EngagementLevel},
		{dimConversionPotential, s.ConversionPotential},
	}
	slices.SortStableFunc(ranked, func(a, b rankedScore) int {
		return cmp.Compare(b.value, a.value)
	})
	return ranked
}
