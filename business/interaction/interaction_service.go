package interaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"okazjeplus/domain"
	"okazjeplus/pkg/logger"
	"okazjeplus/pkg/trace"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Repository contract interface
type Repository interface {
	Create(ctx context.Context, in *domain.Interaction) error
}

// TrackInput is one tracking call. Timestamp defaults to the server clock.
type TrackInput struct {
	UserID          string                     `json:"-" validate:"required,max=128"`
	ItemID          string                     `json:"item_id" validate:"required,max=128"`
	ItemType        domain.ItemType            `json:"item_type" validate:"required,oneof=deal product"`
	InteractionType domain.InteractionType     `json:"interaction_type" validate:"required,oneof=view click favorite vote comment share"`
	Timestamp       *time.Time                 `json:"timestamp,omitempty"`
	DurationMS      *int64                     `json:"duration_ms,omitempty" validate:"omitempty,gte=0"`
	Metadata        domain.InteractionMetadata `json:"metadata"`
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
		now:      time.Now,
	}
}

// Track validates and stores an interaction. Stored interactions are never
// updated.
func (s *Service) Track(ctx context.Context, input TrackInput) (domain.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Interaction{}, fmt.Errorf("context error: %w", err)
	}

	input.UserID = strings.TrimSpace(input.UserID)
	input.ItemID = strings.TrimSpace(input.ItemID)

	if err := s.validate.Struct(input); err != nil {
		logger.Debug("interaction_rejected",
			"trace_id", trace.TraceIDFromContext(ctx),
			"error", err,
		)
		return domain.Interaction{}, fmt.Errorf("%w: %w", domain.ErrInvalidInteraction, err)
	}

	ts := s.now().UTC()
	if input.Timestamp != nil && !input.Timestamp.IsZero() {
		ts = input.Timestamp.UTC()
	}

	in := domain.Interaction{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		ItemID:          input.ItemID,
		ItemType:        input.ItemType,
		InteractionType: input.InteractionType,
		Timestamp:       ts,
		DurationMS:      input.DurationMS,
		Metadata:        input.Metadata,
	}

	if err := s.repo.Create(ctx, &in); err != nil {
		logger.Error("failed to store interaction",
			"trace_id", trace.TraceIDFromContext(ctx),
			"user_id", in.UserID,
			"error", err,
		)
		return domain.Interaction{}, err
	}

	InteractionsTrackedTotal.WithLabelValues(string(in.InteractionType)).Inc()

	return in, nil
}
