package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string   `gorm:"not null" json:"name"`
	Description   string   `gorm:"not null" json:"description"`
	Price         float64  `gorm:"not null" json:"price"`
	DiscountPrice float64  `json:"discount_price,omitempty"`
	SKU           string   `gorm:"unique;not null" json:"sku"`
	Category      string   `gorm:"not null;index" json:"category"` // e.g. 'Necklace', 'Bracelet', 'Purse'
	Colors        []string `gorm:"serializer:json" json:"colors"`
	Sizes         []string `gorm:"serializer:json" json:"sizes"`
	Images        []string `gorm:"serializer:json" json:"images"`
	Tags          []string `gorm:"serializer:json" json:"tags"` // e.g. 'gift', 'festival', 'ethnic'
	Stock         int      `gorm:"default:0" json:"stock"`
	Weight        float64  `json:"weight"` // matters for shipping handmade items
	IsFeatured    bool     `json:"is_featured"`
	IsPublished   bool     `json:"is_published"`
	Rating        float64  `json:"rating"`
	NumReviews    int      `json:"num_reviews"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PrimaryImage returns the first catalog image, or "" for products without one.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// EffectivePrice is the price cart snapshots are taken at: the discount price
// when one is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.Price {
		return p.DiscountPrice
	}
	return p.Price
}
