package orders

import (
	"math"
)

// Product carries the catalog pricing and production metadata the
// pricing engine needs. It is supplied by the catalog lookup; orders
// never own product rows.
type Product struct {
	ID                      int64
	Name                    string
	UnitPrice               *float64
	PackagePrice            *float64
	MinimumOrderQuantity    float64
	BaseProductionDays      int
	VolumeDiscountThreshold float64
}

// rushPenaltyDays is added to a line's production estimate once its
// quantity exceeds the product's volume-discount threshold.
const rushPenaltyDays = 2

// ResolveUnitPrice prefers the per-unit price and falls back to the
// per-package price for area- or volume-sold goods.
func ResolveUnitPrice(p Product) (float64, error) {
	if p.UnitPrice != nil {
		return *p.UnitPrice, nil
	}
	if p.PackagePrice != nil {
		return *p.PackagePrice, nil
	}
	return 0, fieldErr(ErrNotFound, "price")
}

// BuildLineItem validates quantity against the product's minimum and
// computes the line total.
func BuildLineItem(p Product, description string, quantity float64) (LineItem, error) {
	if quantity < p.MinimumOrderQuantity {
		return LineItem{}, fieldErr(ErrBelowMinimumOrder, "quantity")
	}
	unit, err := ResolveUnitPrice(p)
	if err != nil {
		return LineItem{}, err
	}
	if description == "" {
		description = p.Name
	}
	return LineItem{
		ProductID:   p.ID,
		Description: description,
		UnitCost:    unit,
		Quantity:    quantity,
		LineTotal:   round2(unit * quantity),
	}, nil
}

// RecomputeLineTotal must run whenever cost or quantity changes.
func RecomputeLineTotal(li *LineItem) {
	li.LineTotal = round2(li.UnitCost * li.Quantity)
}

// Total sums line totals; the order's totalAmount is always derived
// from this, never set directly.
func Total(items []LineItem) float64 {
	var sum float64
	for _, li := range items {
		sum += li.LineTotal
	}
	return round2(sum)
}

// EstimateProductionDays returns the production-time estimate for a
// cart. Lines run in parallel across product stations, so the result
// is the maximum per-line estimate, not the sum. Oversized quantities
// get a fixed penalty.
func EstimateProductionDays(items []LineItem, products map[int64]Product) int {
	var max int
	for _, li := range items {
		p, ok := products[li.ProductID]
		if !ok {
			continue
		}
		days := p.BaseProductionDays
		if p.VolumeDiscountThreshold > 0 && li.Quantity > p.VolumeDiscountThreshold {
			days += rushPenaltyDays
		}
		if days > max {
			max = days
		}
	}
	return max
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
