// Package domain holds the catalog entities: products and the occasions they
// are sold for.
package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	PriceUSD    decimal.Decimal `gorm:"column:price_usd;type:decimal(10,2);not null" json:"price_usd"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	Active      bool            `gorm:"column:active;not null;default:true" json:"active"`
	// Position in the homepage carousel; zero means not featured.
	CarouselOrder int        `gorm:"column:carousel_order;not null;default:0" json:"carousel_order"`
	Occasions     []Occasion `gorm:"many2many:product_occasions" json:"occasions,omitempty"`
}

func (Product) TableName() string { return "products" }

type Occasion struct {
	gorm.Model
	Name         string `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug         string `gorm:"column:slug;type:varchar(100);uniqueIndex;not null" json:"slug"`
	Active       bool   `gorm:"column:active;not null;default:true" json:"active"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0" json:"display_order"`
}

func (Occasion) TableName() string { return "occasions" }
