package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"okazjeplus/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRedis struct {
	values map[string]string
	ttls   map[string]time.Duration

	getErr error
	setErr error
	delErr error

	deleted []string
}

func newMockRedis() *mockRedis {
	return &mockRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	v, ok := m.values[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	m.deleted = append(m.deleted, keys...)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

type stubSegmentStore struct {
	segments  map[string]domain.UserSegment
	reads     int
	getErr    error
	upsertErr error
}

func (s *stubSegmentStore) GetSegment(ctx context.Context, userID string) (domain.UserSegment, bool, error) {
	s.reads++
	if s.getErr != nil {
		return domain.UserSegment{}, false, s.getErr
	}
	seg, ok := s.segments[userID]
	return seg, ok, nil
}

func (s *stubSegmentStore) UpsertSegment(ctx context.Context, segment domain.UserSegment) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.segments[segment.UserID] = segment
	return nil
}

func sampleSegment(version int) domain.UserSegment {
	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	return domain.UserSegment{
		ID:          "u1",
		UserID:      "u1",
		SegmentType: domain.SegmentBrandLover,
		Confidence:  0.9,
		Characteristics: domain.SegmentCharacteristics{
			CategoryPreferences: []string{"audio"},
			DealPreferences:     []string{"brand"},
			ActivityLevel:       domain.ActivityMedium,
			ConversionRate:      0.3,
		},
		GeneratedAt: at,
		UpdatedAt:   at,
		Version:     version,
	}
}

func TestSegmentCache_ReadThrough(t *testing.T) {
	client := newMockRedis()
	store := &stubSegmentStore{segments: map[string]domain.UserSegment{"u1": sampleSegment(1)}}
	cache := NewSegmentCache(client, store, time.Hour)
	ctx := context.Background()

	got, found, err := cache.GetSegment(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleSegment(1), got)
	assert.Equal(t, 1, store.reads)
	assert.Equal(t, time.Hour, client.ttls["segment:user:u1"])

	got, found, err = cache.GetSegment(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleSegment(1), got)
	assert.Equal(t, 1, store.reads, "second read must be served from redis")
}

func TestSegmentCache_MissIsNotCached(t *testing.T) {
	client := newMockRedis()
	store := &stubSegmentStore{segments: map[string]domain.UserSegment{}}
	cache := NewSegmentCache(client, store, time.Hour)

	_, found, err := cache.GetSegment(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, client.values)
}

func TestSegmentCache_RedisDownFallsThrough(t *testing.T) {
	client := newMockRedis()
	client.getErr = errors.New("dial tcp: connection refused")
	client.setErr = errors.New("dial tcp: connection refused")
	store := &stubSegmentStore{segments: map[string]domain.UserSegment{"u1": sampleSegment(4)}}
	cache := NewSegmentCache(client, store, time.Hour)

	got, found, err := cache.GetSegment(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, got.Version)
	assert.Equal(t, []string{"segment:user:u1"}, client.deleted)
}

func TestSegmentCache_CorruptEntryIsEvicted(t *testing.T) {
	client := newMockRedis()
	client.values["segment:user:u1"] = "{not json"
	store := &stubSegmentStore{segments: map[string]domain.UserSegment{"u1": sampleSegment(2)}}
	cache := NewSegmentCache(client, store, time.Hour)

	got, found, err := cache.GetSegment(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Version)
	assert.Contains(t, client.deleted, "segment:user:u1")

	var cached domain.UserSegment
	require.NoError(t, json.Unmarshal([]byte(client.values["segment:user:u1"]), &cached))
	assert.Equal(t, 2, cached.Version)
}

func TestSegmentCache_UpsertRefreshesCache(t *testing.T) {
	client := newMockRedis()
	store := &stubSegmentStore{segments: map[string]domain.UserSegment{}}
	cache := NewSegmentCache(client, store, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.UpsertSegment(ctx, sampleSegment(1)))
	require.NoError(t, cache.UpsertSegment(ctx, sampleSegment(2)))

	got, found, err := cache.GetSegment(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, 0, store.reads)
}

func TestSegmentCache_StoreErrorsPropagate(t *testing.T) {
	client := newMockRedis()
	store := &stubSegmentStore{
		segments:  map[string]domain.UserSegment{},
		getErr:    errors.New("db down"),
		upsertErr: errors.New("db down"),
	}
	cache := NewSegmentCache(client, store, time.Hour)
	ctx := context.Background()

	_, _, err := cache.GetSegment(ctx, "u1")
	assert.EqualError(t, err, "db down")

	err = cache.UpsertSegment(ctx, sampleSegment(1))
	assert.EqualError(t, err, "db down")
	assert.Empty(t, client.values)
}
