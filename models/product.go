package models

import (
	"errors"
	"fmt"
)

// Badge values a product may carry.
const (
	BadgeNew     = "new"
	BadgeSale    = "sale"
	BadgeLimited = "limited"
)

// Product is a catalog item. Prices are whole forint (zero-decimal).
type Product struct {
	ID            string `json:"id,omitempty" bson:"id,omitempty"`
	Name          string `json:"name" bson:"name"`
	Description   string `json:"description" bson:"description"`
	Price         int64  `json:"price" bson:"price"`
	OriginalPrice *int64 `json:"original_price,omitempty" bson:"original_price,omitempty"`
	ImageURL      string `json:"image_url" bson:"image_url"`
	HoverImageURL string `json:"hover_image_url,omitempty" bson:"hover_image_url,omitempty"`
	Category      string `json:"category" bson:"category"`
	Badge         string `json:"badge,omitempty" bson:"badge,omitempty"`
	Stock         *int64 `json:"stock,omitempty" bson:"stock,omitempty"`
	IsActive      *bool  `json:"is_active,omitempty" bson:"is_active,omitempty"`
	CreatedDate   string `json:"created_date,omitempty" bson:"created_date,omitempty"`
	UpdatedDate   string `json:"updated_date,omitempty" bson:"updated_date,omitempty"`
}

// Validate checks the record before it reaches the store.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("product price must not be negative")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		return errors.New("product original_price must not be negative")
	}
	if p.Category == "" {
		return errors.New("product category is required")
	}
	switch p.Badge {
	case "", BadgeNew, BadgeSale, BadgeLimited:
	default:
		return fmt.Errorf("unknown product badge %q", p.Badge)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return errors.New("product stock must not be negative")
	}
	return nil
}

// Active reports whether the product is visible in the catalog.
// Missing is_active counts as active.
func (p *Product) Active() bool {
	return p.IsActive == nil || *p.IsActive
}
