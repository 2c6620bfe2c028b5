package segmentation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"
)

const (
	dominantScoreThreshold  = 70
	dealHunterThreshold     = 75
	impulseBuyerThreshold   = 80
	fallbackConfidence      = 0.5
	lowActivityThreshold    = 30
	mediumActivityThreshold = 70
)

var dealPreferencesBySegment = map[domain.SegmentType][]string{
	domain.SegmentPriceSensitive: {"discount", "coupon"},
	domain.SegmentFastDelivery:   {"free_shipping", "fast_delivery"},
	domain.SegmentBrandLover:     {"brand"},
	domain.SegmentQualitySeeker:  {"quality", "rating"},
	domain.SegmentDealHunter:     {"discount", "trending"},
	domain.SegmentImpulseBuyer:   {"discount", "trending"},
}

// DealPreferences returns a copy of the fixed preference tags for a segment.
func DealPreferences(segment domain.SegmentType) []string {
	return slices.Clone(dealPreferencesBySegment[segment])
}

// classify applies the ordered decision rule; the first match wins.
func classify(s domain.BehaviorScores) (domain.SegmentType, float64) {
	top := rankScores(s)[0]

	if top.value >= dominantScoreThreshold {
		switch top.dim {
		case dimPriceSensitivity:
			return domain.SegmentPriceSensitive, float64(top.value) / 100
		case dimSpeedPriority:
			return domain.SegmentFastDelivery, float64(top.value) / 100
		case dimBrandLoyalty:
			return domain.SegmentBrandLover, float64(top.value) / 100
		case dimQualityFocus:
			return domain.SegmentQualitySeeker, float64(top.value) / 100
		}
	}

	if s.EngagementLevel >= dealHunterThreshold && s.ConversionPotential >= dealHunterThreshold {
		return domain.SegmentDealHunter, float64(s.EngagementLevel+s.ConversionPotential) / 2 / 100
	}

	if s.ConversionPotential >= impulseBuyerThreshold {
		return domain.SegmentImpulseBuyer, float64(s.ConversionPotential) / 100
	}

	return domain.SegmentDealHunter, fallbackConfidence
}

func activityLevel(engagement int) domain.ActivityLevel {
	switch {
	case engagement < lowActivityThreshold:
		return domain.ActivityLow
	case engagement < mediumActivityThreshold:
		return domain.ActivityMedium
	default:
		return domain.ActivityHigh
	}
}

// topCategories returns up to limit slugs by frequency. Ties go to the slug
// seen most recently.
func (t interactionTally) topCategories(limit int) []string {
	slugs := make([]string, 0, len(t.categoryCount))
	for slug := range t.categoryCount {
		slugs = append(slugs, slug)
	}

	slices.SortFunc(slugs, func(a, b string) int {
		if c := cmp.Compare(t.categoryCount[b], t.categoryCount[a]); c != 0 {
			return c
		}
		return cmp.Compare(t.categoryFirst[a], t.categoryFirst[b])
	})

	if len(slugs) > limit {
		slugs = slugs[:limit]
	}
	return slugs
}

// GetUserSegment returns the user's segment, reusing the stored one while it
// is younger than SegmentTTL unless forceRecalculate is set.
func (s *Service) GetUserSegment(ctx context.Context, userID string, forceRecalculate bool) (domain.UserSegment, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSegment{}, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(userID) == "" {
		return domain.UserSegment{}, ErrInvalidUserID
	}

	tid := trace.TraceIDFromContext(ctx)

	existing, found, err := s.segmentRepo.GetSegment(ctx, userID)
	if err != nil {
		return domain.UserSegment{}, upstreamError("load segment", err)
	}

	now := s.clock()
	if !forceRecalculate && found && now.Sub(existing.UpdatedAt) < s.cfg.SegmentTTL {
		SegmentRequestsTotal.WithLabelValues(outcomeCacheHit).Inc()
		logger.Debug("segment_cache_hit",
			"trace_id", tid,
			"user_id", userID,
			"segment_type", string(existing.SegmentType),
			"version", existing.Version,
		)
		return existing, nil
	}

	score, err := s.currentScore(ctx, userID, forceRecalculate, now)
	if err != nil {
		return domain.UserSegment{}, err
	}

	recent, err := s.interactions.ListRecentByUser(ctx, userID, s.cfg.CategoryInteractionLimit)
	if err != nil {
		return domain.UserSegment{}, upstreamError("list interactions", err)
	}

	priceWindow := recent[:min(len(recent), s.cfg.PriceInteractionLimit)]
	var items map[itemKey]domain.CatalogItem
	if len(priceWindow) > 0 {
		items = s.resolveItems(ctx, priceWindow)
	}

	categories := tallyInteractions(recent, nil).topCategories(maxCategoryPreferences)
	prices := tallyInteractions(priceWindow, items).prices

	segmentType, confidence := classify(score.Scores)

	characteristics := domain.SegmentCharacteristics{
		CategoryPreferences: categories,
		DealPreferences:     DealPreferences(segmentType),
		ActivityLevel:       activityLevel(score.Scores.EngagementLevel),
		ConversionRate:      float64(score.Scores.ConversionPotential) / 100,
	}
	if len(prices) > 0 {
		avg := mean(prices)
		characteristics.AvgPricePoint = &avg
	}

	version := 1
	if found {
		version = existing.Version + 1
	}

	segment := domain.UserSegment{
		ID:              userID,
		UserID:          userID,
		SegmentType:     segmentType,
		Confidence:      confidence,
		Characteristics: characteristics,
		GeneratedAt:     now,
		UpdatedAt:       now,
		Version:         version,
	}

	if err := s.segmentRepo.UpsertSegment(ctx, segment); err != nil {
		return domain.UserSegment{}, upstreamError("save segment", err)
	}

	outcome := outcomeRecalculated
	if forceRecalculate {
		outcome = outcomeForced
	}
	SegmentRequestsTotal.WithLabelValues(outcome).Inc()
	SegmentAssignmentsTotal.WithLabelValues(string(segmentType)).Inc()

	logger.Info("segment_recalculated",
		"trace_id", tid,
		"user_id", userID,
		"segment_type", string(segmentType),
		"confidence", confidence,
		"version", version,
		"forced", forceRecalculate,
	)

	return segment, nil
}

// currentScore reuses a stored score younger than SegmentTTL and computes a
// fresh one otherwise (or when forced).
func (s *Service) currentScore(ctx context.Context, userID string, force bool, now time.Time) (domain.BehaviorScore, error) {
	if !force {
		stored, ok, err := s.scoreRepo.GetScore(ctx, userID)
		if err != nil {
			return domain.BehaviorScore{}, upstreamError("load behavior score", err)
		}
		if ok && now.Sub(stored.CalculatedAt) < s.cfg.SegmentTTL {
			return stored, nil
		}
	}

	return s.CalculateBehaviorScores(ctx, userID)
}
