package segmentation

import (
	"time"
)

// Service computes behavior scores and segments for users. It holds no
// per-user state between calls; every record lives in the repositories.
type Service struct {
	interactions InteractionRepository
	catalog      CatalogRepository
	scoreRepo    BehaviorScoreRepository
	segmentRepo  SegmentRepository
	cfg          Config

	now func() time.Time
}

func NewService(
	interactions InteractionRepository,
	catalog CatalogRepository,
	scoreRepo BehaviorScoreRepository,
	segmentRepo SegmentRepository,
	cfg Config,
) *Service {
	return &Service{
		interactions: interactions,
		catalog:      catalog,
		scoreRepo:    scoreRepo,
		segmentRepo:  segmentRepo,
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

// clock returns the current time at the precision the stores keep
// (timestamptz: UTC, microseconds), so a freshly written record equals the
// one read back later.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
