package segmentation

import (
	"context"
	"time"

	"okazjeplus/domain"
)

type Config struct {
	// how long a stored segment (and the score it was built from) stays fresh
	SegmentTTL time.Duration

	// interaction windows, newest first
	ScoreInteractionLimit    int
	CategoryInteractionLimit int
	PriceInteractionLimit    int

	// max in-flight catalog lookups per call
	LookupConcurrency int
}

const (
	defaultSegmentTTL               = 7 * 24 * time.Hour
	defaultScoreInteractionLimit    = 100
	defaultCategoryInteractionLimit = 50
	defaultPriceInteractionLimit    = 20
	defaultLookupConcurrency        = 8

	maxCategoryPreferences = 5
)

func DefaultConfig() Config {
	return Config{
		SegmentTTL:               defaultSegmentTTL,
		ScoreInteractionLimit:    defaultScoreInteractionLimit,
		CategoryInteractionLimit: defaultCategoryInteractionLimit,
		PriceInteractionLimit:    defaultPriceInteractionLimit,
		LookupConcurrency:        defaultLookupConcurrency,
	}
}

// withDefaults fills every unset field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SegmentTTL <= 0 {
		c.SegmentTTL = d.SegmentTTL
	}
	if c.ScoreInteractionLimit <= 0 {
		c.ScoreInteractionLimit = d.ScoreInteractionLimit
	}
	if c.CategoryInteractionLimit <= 0 {
		c.CategoryInteractionLimit = d.CategoryInteractionLimit
	}
	if c.PriceInteractionLimit <= 0 {
		c.PriceInteractionLimit = d.PriceInteractionLimit
	}
	if c.PriceInteractionLimit > c.CategoryInteractionLimit {
		c.PriceInteractionLimit = c.CategoryInteractionLimit
	}
	if c.LookupConcurrency <= 0 {
		c.LookupConcurrency = d.LookupConcurrency
	}
	return c
}

// ---- Repository interfaces ----

// InteractionRepository returns a user's interactions, newest first.
type InteractionRepository interface {
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Interaction, error)
}

// CatalogRepository resolves a deal or product. A miss is domain.ErrItemNotFound.
type CatalogRepository interface {
	GetItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.CatalogItem, error)
}

type BehaviorScoreRepository interface {
	GetScore(ctx context.Context, userID string) (domain.BehaviorScore, bool, error)
	SaveScore(ctx context.Context, score domain.BehaviorScore) error
}

type SegmentRepository interface {
	GetSegment(ctx context.Context, userID string) (domain.UserSegment, bool, error)
	UpsertSegment(ctx context.Context, segment domain.UserSegment) error
}
