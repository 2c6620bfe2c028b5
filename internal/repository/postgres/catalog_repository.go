package postgres

import (
	"context"
	"errors"
	"fmt"

	"okazjeplus/business/segmentation"
	"okazjeplus/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

var _ segmentation.CatalogRepository = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) GetItem(ctx context.Context, itemType domain.ItemType, itemID string) (domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatalogItem{}, fmt.Errorf("context error: %w", err)
	}

	switch itemType {
	case domain.ItemTypeDeal:
		var deal domain.Deal
		if err := r.first(ctx, &deal, itemID); err != nil {
			return domain.CatalogItem{}, err
		}
		return deal.CatalogItem(), nil
	case domain.ItemTypeProduct:
		var product domain.Product
		if err := r.first(ctx, &product, itemID); err != nil {
			return domain.CatalogItem{}, err
		}
		return product.CatalogItem(), nil
	default:
		return domain.CatalogItem{}, fmt.Errorf("unknown item type %q: %w", itemType, domain.ErrItemNotFound)
	}
}

func (r *CatalogRepository) first(ctx context.Context, dest any, id string) error {
	err := r.DB.WithContext(ctx).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find catalog item: %w", err)
	}
	return nil
}
