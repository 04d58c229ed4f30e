package catalog

import "errors"

// ErrNoPrice is returned when neither a unit nor a package price is
// supplied.
var ErrNoPrice = errors.New("catalog: product needs a unit or package price")

// ProductRequest creates or updates a product.
type ProductRequest struct {
	SKU                     string   `json:"sku" validate:"required,max=64"`
	Name                    string   `json:"name" validate:"required,max=255"`
	UnitPrice               *float64 `json:"unit_price,omitempty" validate:"omitempty,gt=0"`
	PackagePrice            *float64 `json:"package_price,omitempty" validate:"omitempty,gt=0"`
	MinimumOrderQuantity    float64  `json:"minimum_order_quantity" validate:"gte=0"`
	BaseProductionDays      int      `json:"base_production_days" validate:"gte=0"`
	VolumeDiscountThreshold *float64 `json:"volume_discount_threshold,omitempty" validate:"omitempty,gt=0"`
	IsActive                bool     `json:"is_active"`
}

func (r ProductRequest) checkPricing() error {
	if r.UnitPrice == nil && r.PackagePrice == nil {
		return ErrNoPrice
	}
	return nil
}

func (r ProductRequest) toProduct() Product {
	return Product{
		SKU:                     r.SKU,
		Name:                    r.Name,
		UnitPrice:               r.UnitPrice,
		PackagePrice:            r.PackagePrice,
		MinimumOrderQuantity:    r.MinimumOrderQuantity,
		BaseProductionDays:      r.BaseProductionDays,
		VolumeDiscountThreshold: r.VolumeDiscountThreshold,
		IsActive:                r.IsActive,
	}
}
