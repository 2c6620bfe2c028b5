package domain

import (
	"errors"
	"time"
)

var ErrInvalidInteraction = errors.New("invalid interaction")

type ItemType string

const (
	ItemTypeDeal    ItemType = "deal"
	ItemTypeProduct ItemType = "product"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeDeal || t == ItemTypeProduct
}

type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionClick    InteractionType = "click"
	InteractionFavorite InteractionType = "favorite"
	InteractionVote     InteractionType = "vote"
	InteractionComment  InteractionType = "comment"
	InteractionShare    InteractionType = "share"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionClick, InteractionFavorite,
		InteractionVote, InteractionComment, InteractionShare:
		return true
	default:
		return false
	}
}

// InteractionMetadata is the optional context the client attaches to a
// tracking call. Position is the 0-based slot in the list the item was shown in.
type InteractionMetadata struct {
	Source       string `gorm:"column:source;type:text" json:"source,omitempty" validate:"omitempty,max=64"`
	Position     *int   `gorm:"column:position" json:"position,omitempty" validate:"omitempty,gte=0"`
	CategorySlug string `gorm:"column:category_slug;type:text" json:"category_slug,omitempty" validate:"omitempty,max=128"`
}

// CREATE TABLE public.interactions (
//     id                 UUID PRIMARY KEY,
//     user_id            TEXT NOT NULL,
//     item_id            TEXT NOT NULL,
//     item_type          TEXT NOT NULL,
//     interaction_type   TEXT NOT NULL,
//     occurred_at        TIMESTAMPTZ NOT NULL,
//     duration_ms        BIGINT,
//     meta_source        TEXT,
//     meta_position      INT,
//     meta_category_slug TEXT
// );
// CREATE INDEX idx_interactions_user_time ON interactions (user_id, occurred_at DESC);

type Interaction struct {
	ID              string              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          string              `gorm:"column:user_id;type:text;not null;index:idx_interactions_user_time,priority:1" json:"user_id"`
	ItemID          string              `gorm:"column:item_id;type:text;not null" json:"item_id"`
	ItemType        ItemType            `gorm:"column:item_type;type:text;not null" json:"item_type"`
	InteractionType InteractionType     `gorm:"column:interaction_type;type:text;not null" json:"interaction_type"`
	Timestamp       time.Time           `gorm:"column:occurred_at;not null;index:idx_interactions_user_time,priority:2,sort:desc" json:"timestamp"`
	DurationMS      *int64              `gorm:"column:duration_ms" json:"duration_ms,omitempty"`
	Metadata        InteractionMetadata `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
}

func (Interaction) TableName() string {
	return "interactions"
}
