package segmentation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"
)

// interactionTally is the single-pass aggregate both the scorer and the
// classifier read from.
type interactionTally struct {
	total    int
	views    int
	clicks   int
	votes    int
	comments int
	shares   int
	products int

	merchants map[string]struct{}
	prices    []float64

	// category slug -> count, plus index of the newest interaction using it
	categoryCount map[string]int
	categoryFirst map[string]int
}

func tallyInteractions(interactions []domain.Interaction, items map[itemKey]domain.CatalogItem) interactionTally {
	t := interactionTally{
		total:         len(interactions),
		merchants:     make(map[string]struct{}),
		categoryCount: make(map[string]int),
		categoryFirst: make(map[string]int),
	}

	for i, in := range interactions {
		switch in.InteractionType {
		case domain.InteractionView:
			t.views++
		case domain.InteractionClick:
			t.clicks++
		case domain.InteractionVote:
			t.votes++
		case domain.InteractionComment:
			t.comments++
		case domain.InteractionShare:
			t.shares++
		}

		if in.ItemType == domain.ItemTypeProduct {
			t.products++
		}

		if item, ok := items[keyOf(in)]; ok {
			// free deals count; negative prices are bad catalog data
			if item.Price >= 0 {
				t.prices = append(t.prices, item.Price)
			}
			if item.Type == domain.ItemTypeDeal && item.Merchant != "" {
				t.merchants[item.Merchant] = struct{}{}
			}
		}

		if slug := in.Metadata.CategorySlug; slug != "" {
			if _, ok := t.categoryFirst[slug]; !ok {
				t.categoryFirst[slug] = i
			}
			t.categoryCount[slug]++
		}
	}

	return t
}

func neutralScores() domain.BehaviorScores {
	return domain.BehaviorScores{
		PriceSensitivity:    neutralScore,
		BrandLoyalty:        neutralScore,
		QualityFocus:        neutralScore,
		SpeedPriority:       neutralScore,
		EngagementLevel:     0,
		ConversionPotential: neutralScore,
	}
}

func (t interactionTally) scores() domain.BehaviorScores {
	if t.total == 0 {
		return neutralScores()
	}

	out := domain.BehaviorScores{
		// no shipping data is tracked, so speed stays neutral
		SpeedPriority: neutralScore,
	}

	if len(t.prices) > 0 {
		out.PriceSensitivity = toScore(100 - mean(t.prices)/10)
	} else {
		out.PriceSensitivity = neutralScore
	}

	if n := len(t.merchants); n > 0 {
		out.BrandLoyalty = toScore(100 / float64(n))
	} else {
		out.BrandLoyalty = neutralScore
	}

	out.QualityFocus = toScore(float64(t.products) / float64(t.total) * 120)

	weighted := t.views*1 + t.clicks*3 + t.votes*2 + t.comments*4 + t.shares*5
	out.EngagementLevel = toScore(float64(weighted) / 2)

	// a views-only history carries no conversion signal either way
	if t.views > 0 && t.clicks > 0 {
		out.ConversionPotential = toScore(float64(t.clicks) / float64(t.views) * 200)
	} else {
		out.ConversionPotential = neutralScore
	}

	return out
}

// CalculateBehaviorScores recomputes the user's six behavior scores from the
// most recent interactions and overwrites the stored record.
func (s *Service) CalculateBehaviorScores(ctx context.Context, userID string) (domain.BehaviorScore, error) {
	if err := ctx.Err(); err != nil {
		return domain.BehaviorScore{}, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(userID) == "" {
		return domain.BehaviorScore{}, ErrInvalidUserID
	}

	start := time.Now()
	defer func() {
		BehaviorScoreDuration.Observe(time.Since(start).Seconds())
	}()

	interactions, err := s.interactions.ListRecentByUser(ctx, userID, s.cfg.ScoreInteractionLimit)
	if err != nil {
		return domain.BehaviorScore{}, upstreamError("list interactions", err)
	}

	var items map[itemKey]domain.CatalogItem
	if len(interactions) > 0 {
		items = s.resolveItems(ctx, interactions)
	}

	tally := tallyInteractions(interactions, items)
	now := s.clock()

	score := domain.BehaviorScore{
		UserID:              userID,
		Scores:              tally.scores(),
		BasedOnInteractions: len(interactions),
		CalculatedAt:        now,
		UpdatedAt:           now,
	}

	if err := s.scoreRepo.SaveScore(ctx, score); err != nil {
		return domain.BehaviorScore{}, upstreamError("save behavior score", err)
	}

	logger.Debug("behavior_scores_calculated",
		"trace_id", trace.TraceIDFromContext(ctx),
		"user_id", userID,
		"interactions", len(interactions),
		"resolved_items", len(items),
		"distinct_merchants", len(tally.merchants),
	)

	return score, nil
}
