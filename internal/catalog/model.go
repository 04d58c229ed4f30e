package catalog

import "time"

// Product is a sellable print product. Pricing resolves unit price
// first and falls back to the package price when no unit price is set.
type Product struct {
	ID                      int64     `json:"id"`
	SKU                     string    `json:"sku"`
	Name                    string    `json:"name"`
	UnitPrice               *float64  `json:"unit_price,omitempty"`
	PackagePrice            *float64  `json:"package_price,omitempty"`
	MinimumOrderQuantity    float64   `json:"minimum_order_quantity"`
	BaseProductionDays      int       `json:"base_production_days"`
	VolumeDiscountThreshold *float64  `json:"volume_discount_threshold,omitempty"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// ListFilters narrows the product list.
type ListFilters struct {
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}
