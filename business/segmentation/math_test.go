package segmentation

import (
	"math"
	"testing"

	"okazjeplus/domain"

	"github.com/stretchr/testify/assert"
)

func TestClampIsIdempotent(t *testing.T) {
	inputs := []float64{-1e9, -0.5, 0, 0.4, 49.5, 99.99, 100, 100.01, 1e12, math.Inf(1), math.Inf(-1)}

	for _, in := range inputs {
		once := clamp(in, 0, 100)
		twice := clamp(once, 0, 100)
		assert.Equal(t, once, twice, "input %v", in)
		assert.GreaterOrEqual(t, once, 0.0)
		assert.LessOrEqual(t, once, 100.0)
	}
}

func TestToScore(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{in: -20, want: 0},
		{in: 0.49, want: 0},
		{in: 0.5, want: 1},
		{in: 10.5, want: 11},
		{in: 71.11, want: 71},
		{in: 99.5, want: 100},
		{in: 250, want: 100},
		{in: math.NaN(), want: 0},
	}

	for _, tc := range cases {
		got := toScore(tc.in)
		assert.Equal(t, tc.want, got, "toScore(%v)", tc.in)
		assert.Equal(t, got, toScore(float64(got)), "toScore must be stable on its own output")
	}
}

func TestRankScores(t *testing.T) {
	ranked := rankScores(domain.BehaviorScores{
		PriceSensitivity:    40,
		BrandLoyalty:        90,
		QualityFocus:        90,
		SpeedPriority:       50,
		EngagementLevel:     10,
		ConversionPotential: 95,
	})

	dims := make([]dimension, 0, len(ranked))
	for _, r := range ranked {
		dims = append(dims, r.dim)
	}

	assert.Equal(t, []dimension{
		dimConversionPotential,
		dimBrandLoyalty,
		dimQualityFocus,
		dimSpeedPriority,
		dimPriceSensitivity,
		dimEngagementLevel,
	}, dims)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.InDelta(t, 288.89, mean([]float64{200, 200, 200, 200, 200, 400, 400, 400, 400}), 0.01)
}
