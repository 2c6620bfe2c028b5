package segmentation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"okazjeplus/domain"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type fakeInteractionRepo struct {
	byUser map[string][]domain.Interaction
	err    error
	limits []int
}

func (f *fakeInteractionRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	all := f.byUser[userID]
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]domain.Interaction, len(all))
	copy(out, all)
	return out, nil
}

type fakeCatalog struct {
	mu    sync.Mutex
	items map[itemKey]domain.CatalogItem
	errs  map[string]error
	calls int

	delay       time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeCatalog(items ...domain.CatalogItem) *fakeCatalog {
	c := &fakeCatalog{
		items: make(map[itemKey]domain.CatalogItem),
		errs:  make(map[string]error),
	}
	for _, it := range items {
		c.items[itemKey{itemType: it.Type, itemID: it.ID}] = it
	}
	return c
}

func (f *fakeCatalog) GetItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.CatalogItem, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err, ok := f.errs[itemID]; ok {
		return domain.CatalogItem{}, err
	}
	item, ok := f.items[itemKey{itemType: itemType, itemID: itemID}]
	if !ok {
		return domain.CatalogItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

type fakeScoreRepo struct {
	scores  map[string]domain.BehaviorScore
	getErr  error
	saveErr error
	saves   int
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[string]domain.BehaviorScore)}
}

func (f *fakeScoreRepo) GetScore(ctx context.Context, userID string) (domain.BehaviorScore, bool, error) {
	if f.getErr != nil {
		return domain.BehaviorScore{}, false, f.getErr
	}
	s, ok := f.scores[userID]
	return s, ok, nil
}

func (f *fakeScoreRepo) SaveScore(ctx context.Context, score domain.BehaviorScore) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.scores[score.UserID] = score
	return nil
}

type fakeSegmentRepo struct {
	segments  map[string]domain.UserSegment
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeSegmentRepo() *fakeSegmentRepo {
	return &fakeSegmentRepo{segments: make(map[string]domain.UserSegment)}
}

func (f *fakeSegmentRepo) GetSegment(ctx context.Context, userID string) (domain.UserSegment, bool, error) {
	if f.getErr != nil {
		return domain.UserSegment{}, false, f.getErr
	}
	s, ok := f.segments[userID]
	return s, ok, nil
}

func (f *fakeSegmentRepo) UpsertSegment(ctx context.Context, segment domain.UserSegment) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.segments[segment.UserID] = segment
	return nil
}

type testDeps struct {
	interactions *fakeInteractionRepo
	catalog      *fakeCatalog
	scores       *fakeScoreRepo
	segments     *fakeSegmentRepo
	clock        *time.Time
}

func newTestService(cfg Config, catalog *fakeCatalog, history map[string][]domain.Interaction) (*Service, *testDeps) {
	if catalog == nil {
		catalog = newFakeCatalog()
	}
	clock := testNow
	deps := &testDeps{
		interactions: &fakeInteractionRepo{byUser: history},
		catalog:      catalog,
		scores:       newFakeScoreRepo(),
		segments:     newFakeSegmentRepo(),
		clock:        &clock,
	}
	svc := NewService(deps.interactions, deps.catalog, deps.scores, deps.segments, cfg)
	svc.now = func() time.Time { return *deps.clock }
	return svc, deps
}

// ev builds an interaction; callers list them newest first.
func ev(userID string, itemType domain.ItemType, itemID string, kind domain.InteractionType, category string) domain.Interaction {
	return domain.Interaction{
		ID:              userID + "-" + itemID + "-" + string(kind),
		UserID:          userID,
		ItemID:          itemID,
		ItemType:        itemType,
		InteractionType: kind,
		Timestamp:       testNow,
		Metadata:        domain.InteractionMetadata{CategorySlug: category},
	}
}

func repeat(n int, in domain.Interaction) []domain.Interaction {
	out := make([]domain.Interaction, n)
	for i := range out {
		out[i] = in
	}
	return out
}
