package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"okazjeplus/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stored []domain.Interaction
	err    error
}

func (f *fakeRepo) Create(ctx context.Context, in *domain.Interaction) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, *in)
	return nil
}

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo, validator.New())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestTrack_StoresInteraction(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	pos := 3

	got, err := svc.Track(context.Background(), TrackInput{
		UserID:          " u1 ",
		ItemID:          "deal-42",
		ItemType:        domain.ItemTypeDeal,
		InteractionType: domain.InteractionClick,
		Metadata: domain.InteractionMetadata{
			Source:       "homepage",
			Position:     &pos,
			CategorySlug: "electronics",
		},
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(got.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, fixedNow, got.Timestamp)
	assert.Equal(t, "electronics", got.Metadata.CategorySlug)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, got, repo.stored[0])
}

func TestTrack_KeepsClientTimestamp(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	at := time.Date(2026, 9, 30, 22, 15, 0, 0, time.FixedZone("CEST", 2*60*60))

	got, err := svc.Track(context.Background(), TrackInput{
		UserID:          "u1",
		ItemID:          "p-1",
		ItemType:        domain.ItemTypeProduct,
		InteractionType: domain.InteractionView,
		Timestamp:       &at,
	})
	require.NoError(t, err)

	assert.True(t, got.Timestamp.Equal(at))
	assert.Equal(t, time.UTC, got.Timestamp.Location())
}

func TestTrack_Validation(t *testing.T) {
	negative := int64(-5)
	badPos := -1

	valid := TrackInput{
		UserID:          "u1",
		ItemID:          "d1",
		ItemType:        domain.ItemTypeDeal,
		InteractionType: domain.InteractionView,
	}

	cases := map[string]func(in *TrackInput){
		"missing user":        func(in *TrackInput) { in.UserID = "  " },
		"missing item":        func(in *TrackInput) { in.ItemID = "" },
		"unknown item type":   func(in *TrackInput) { in.ItemType = "coupon" },
		"unknown interaction": func(in *TrackInput) { in.InteractionType = "purchase" },
		"negative duration":   func(in *TrackInput) { in.DurationMS = &negative },
		"negative position":   func(in *TrackInput) { in.Metadata.Position = &badPos },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo)
			in := valid
			mutate(&in)

			_, err := svc.Track(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInteraction)
			assert.Empty(t, repo.stored)
		})
	}
}

func TestTrack_RepositoryError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("insert failed")}
	svc := newTestService(repo)

	_, err := svc.Track(context.Background(), TrackInput{
		UserID:          "u1",
		ItemID:          "d1",
		ItemType:        domain.ItemTypeDeal,
		InteractionType: domain.InteractionShare,
	})
	assert.EqualError(t, err, "insert failed")
}
