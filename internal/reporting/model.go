package reporting

import (
	"time"

	"github.com/printdesk/printdesk/internal/orders"
)

// PlanBreakdown aggregates the day's payments for one plan type.
type PlanBreakdown struct {
	Plan      orders.PlanType `json:"plan"`
	Count     int             `json:"count"`
	Total     float64         `json:"total"`
	Formatted string          `json:"formatted"`
}

// RegisterSummary is the end-of-day register view: cash taken per
// plan plus order movement counts.
type RegisterSummary struct {
	Day            string          `json:"day"`
	Payments       []PlanBreakdown `json:"payments"`
	TotalCollected float64         `json:"total_collected"`
	Formatted      string          `json:"formatted"`
	OrdersOpened   int             `json:"orders_opened"`
	OrdersDelivery int             `json:"orders_delivered"`
	OrdersCanceled int             `json:"orders_cancelled"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
