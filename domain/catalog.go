package domain

import (
	"errors"
	"time"
)

var ErrItemNotFound = errors.New("catalog item not found")

// CREATE TABLE public.deals (
//     id            TEXT PRIMARY KEY,
//     title         TEXT NOT NULL,
//     price         NUMERIC NOT NULL,
//     original_price NUMERIC,
//     merchant      TEXT,
//     category_slug TEXT,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Deal struct {
	ID            string    `gorm:"column:id;type:text;primaryKey" json:"id"`
	Title         string    `gorm:"column:title;type:text;not null" json:"title"`
	Price         float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	OriginalPrice float64   `gorm:"column:original_price;type:numeric" json:"original_price"`
	Merchant      string    `gorm:"column:merchant;type:text" json:"merchant"`
	CategorySlug  string    `gorm:"column:category_slug;type:text" json:"category_slug"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Deal) TableName() string {
	return "deals"
}

// CREATE TABLE public.products (
//     id            TEXT PRIMARY KEY,
//     name          TEXT NOT NULL,
//     price         NUMERIC NOT NULL,   -- lowest current offer
//     category_slug TEXT,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID           string    `gorm:"column:id;type:text;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;type:text;not null" json:"name"`
	Price        float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	CategorySlug string    `gorm:"column:category_slug;type:text" json:"category_slug"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// CatalogItem is what the scorer needs from a deal or a product. Merchant is
// only ever set for deals.
type CatalogItem struct {
	Type         ItemType `json:"type"`
	ID           string   `json:"id"`
	Price        float64  `json:"price"`
	Merchant     string   `json:"merchant,omitempty"`
	CategorySlug string   `json:"category_slug,omitempty"`
}

func (d Deal) CatalogItem() CatalogItem {
	return CatalogItem{
		Type:         ItemTypeDeal,
		ID:           d.ID,
		Price:        d.Price,
		Merchant:     d.Merchant,
		CategorySlug: d.CategorySlug,
	}
}

func (p Product) CatalogItem() CatalogItem {
	return CatalogItem{
		Type:         ItemTypeProduct,
		ID:           p.ID,
		Price:        p.Price,
		CategorySlug: p.CategorySlug,
	}
}
