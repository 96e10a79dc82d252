package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products for browsing (e.g. "Running", "Basketball").
type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Slug string    `json:"slug" db:"slug"`
}

// Brand is a shoe manufacturer.
type Brand struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	Slug    string    `json:"slug" db:"slug"`
	LogoURL string    `json:"logoUrl,omitempty" db:"logo_url"`
}

// Gender values accepted on products.
const (
	GenderMen    = "M"
	GenderWomen  = "W"
	GenderUnisex = "U"
	GenderKids   = "K"
)

// Product represents a shoe in the catalogue. Stock is the number of units
// not yet committed to an order; it never goes below zero.
type Product struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	CategoryID    uuid.UUID        `json:"categoryId" db:"category_id"`
	BrandID       uuid.UUID        `json:"brandId" db:"brand_id"`
	Name          string           `json:"name" db:"name"`
	Slug          string           `json:"slug" db:"slug"`
	Description   string           `json:"description,omitempty" db:"description"`
	Price         decimal.Decimal  `json:"price" db:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty" db:"discount_price"`
	Gender        string           `json:"gender" db:"gender"`
	Available     bool             `json:"available" db:"available"`
	Stock         int              `json:"stock" db:"stock"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time        `json:"updatedAt" db:"updated_at"`

	Sizes  []ProductSize  `json:"sizes,omitempty" db:"-"`
	Images []ProductImage `json:"images,omitempty" db:"-"`
}

// EffectivePrice returns the discount price when one is set, otherwise the
// list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// DiscountPercentage returns the discount as a whole percentage of the list
// price, or 0 when the product is not discounted.
func (p *Product) DiscountPercentage() int {
	if p.DiscountPrice == nil || p.Price.IsZero() {
		return 0
	}
	pct := p.Price.Sub(*p.DiscountPrice).
		Div(p.Price).
		Mul(decimal.NewFromInt(100))
	return int(pct.IntPart())
}

// ProductSize is a per-size stock entry, unique per (product, size).
type ProductSize struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	Size      string    `json:"size" db:"size"`
	Stock     int       `json:"stock" db:"stock"`
}

// ProductImage is an additional gallery image for a product.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	URL       string    `json:"url" db:"url"`
	AltText   string    `json:"altText,omitempty" db:"alt_text"`
}

// ProductFilter narrows catalogue listings. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	BrandID      uuid.UUID
	Gender       string
	Query        string
	Limit        int
	Offset       int
}
