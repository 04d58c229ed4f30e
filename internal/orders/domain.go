// Package orders implements the print-shop order lifecycle and the
// business rules derived from it: status transitions, pricing,
// payment plans and list view-models.
package orders

import (
	"time"
)

// Status represents the lifecycle stage of a print order.
type Status string

const (
	StatusQuoted                  Status = "QUOTED"
	StatusPaid                    Status = "PAID"
	StatusInDesignWithSupplies    Status = "IN_DESIGN_WITH_SUPPLIES"
	StatusInDesignWithoutSupplies Status = "IN_DESIGN_WITHOUT_SUPPLIES"
	StatusDesignInProgress        Status = "DESIGN_IN_PROGRESS"
	StatusDesignUnderClientReview Status = "DESIGN_UNDER_CLIENT_REVIEW"
	StatusDesignApproved          Status = "DESIGN_APPROVED"
	StatusDesignRejected          Status = "DESIGN_REJECTED"
	StatusInPrinting              Status = "IN_PRINTING"
	StatusReadyForDelivery        Status = "READY_FOR_DELIVERY"
	StatusDelivered               Status = "DELIVERED"
	StatusCancelled               Status = "CANCELLED"
)

// AllStatuses lists every valid status in lifecycle order.
var AllStatuses = []Status{
	StatusQuoted,
	StatusPaid,
	StatusInDesignWithSupplies,
	StatusInDesignWithoutSupplies,
	StatusDesignInProgress,
	StatusDesignUnderClientReview,
	StatusDesignApproved,
	StatusDesignRejected,
	StatusInPrinting,
	StatusReadyForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValid checks if the status is a known lifecycle status.
func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the lifecycle. Terminal
// orders are immutable: no transition, line or total may change.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Role identifies which desk an acting user works at.
type Role string

const (
	RoleCounter  Role = "COUNTER"
	RoleDesigner Role = "DESIGNER"
	RoleWorkshop Role = "WORKSHOP"
	RoleFinance  Role = "FINANCE"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCounter, RoleDesigner, RoleWorkshop, RoleFinance:
		return true
	}
	return false
}

// ActingUser is the explicit actor context for a transition request.
// Callers inject it; the machine never reads ambient session state.
type ActingUser struct {
	ID    int64
	Roles []Role
}

// HasAny reports whether the user holds at least one of the roles.
func (u ActingUser) HasAny(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if want == have {
				return true
			}
		}
	}
	return false
}

// PlanType enumerates the payment plans offered at the counter.
type PlanType string

const (
	PlanSingle      PlanType = "SINGLE"
	PlanAdvance     PlanType = "ADVANCE"
	PlanInstallment PlanType = "INSTALLMENT"
)

// IsValid checks if the plan type is known.
func (p PlanType) IsValid() bool {
	return p == PlanSingle || p == PlanAdvance || p == PlanInstallment
}

// LineItem is one product position on an order.
type LineItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	Description string  `json:"description" db:"description"`
	UnitCost    float64 `json:"unit_cost" db:"unit_cost"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
	LineOrder   int     `json:"line_order" db:"line_order"`
}

// HistoryEntry records one applied transition. Entries are append-only
// and never mutated; they are the audit trail and feed timeline views.
type HistoryEntry struct {
	ID             int64     `json:"id" db:"id"`
	OrderID        int64     `json:"order_id" db:"order_id"`
	FromStatus     Status    `json:"from_status" db:"from_status"`
	ToStatus       Status    `json:"to_status" db:"to_status"`
	ActingUserID   int64     `json:"acting_user_id" db:"acting_user_id"`
	ClientApproved *bool     `json:"client_approved,omitempty" db:"client_approved"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// PaymentRecord is one accepted payment against an order. Rows are
// append-only; there are no edits and no refunds.
type PaymentRecord struct {
	ID          string    `json:"id" db:"id"`
	OrderID     int64     `json:"order_id" db:"order_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Type        PlanType  `json:"type" db:"type"`
	ConditionID *int64    `json:"condition_id,omitempty" db:"condition_id"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Order is a customer job progressing from quote to delivery.
type Order struct {
	ID                   int64          `json:"id" db:"id"`
	ClientID             *int64         `json:"client_id,omitempty" db:"client_id"`
	DesignerID           *int64         `json:"designer_id,omitempty" db:"designer_id"`
	Status               Status         `json:"status" db:"status"`
	TotalAmount          float64        `json:"total_amount" db:"total_amount"`
	PaidAmount           float64        `json:"paid_amount" db:"paid_amount"`
	RequiresInvoice      bool           `json:"requires_invoice" db:"requires_invoice"`
	SuppliesVerified     bool           `json:"supplies_verified" db:"supplies_verified"`
	DesignFileRef        *string        `json:"design_file_ref,omitempty" db:"design_file_ref"`
	CancellationReasonID *int64         `json:"cancellation_reason_id,omitempty" db:"cancellation_reason_id"`
	DeliveryDate         *time.Time     `json:"delivery_date,omitempty" db:"delivery_date"`
	CreatedBy            int64          `json:"created_by" db:"created_by"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
	LineItems            []LineItem     `json:"line_items,omitempty" db:"-"`
	History              []HistoryEntry `json:"history,omitempty" db:"-"`
}

// Balance returns the amount still owed on the order.
func (o *Order) Balance() float64 {
	return Balance(o.TotalAmount, o.PaidAmount)
}

// HasVisited reports whether the order's history contains an entry
// that landed on the given status. This backs the auto-advance
// idempotence guard.
func (o *Order) HasVisited(s Status) bool {
	for _, h := range o.History {
		if h.ToStatus == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the order. The lifecycle machine works
// on clones so a failed transition never leaks partial mutation into
// the caller's snapshot.
func (o *Order) Clone() *Order {
	cp := *o
	cp.LineItems = append([]LineItem(nil), o.LineItems...)
	cp.History = append([]HistoryEntry(nil), o.History...)
	if o.ClientID != nil {
		v := *o.ClientID
		cp.ClientID = &v
	}
	if o.DesignerID != nil {
		v := *o.DesignerID
		cp.DesignerID = &v
	}
	if o.DesignFileRef != nil {
		v := *o.DesignFileRef
		cp.DesignFileRef = &v
	}
	if o.CancellationReasonID != nil {
		v := *o.CancellationReasonID
		cp.CancellationReasonID = &v
	}
	if o.DeliveryDate != nil {
		v := *o.DeliveryDate
		cp.DeliveryDate = &v
	}
	return &cp
}

// QueueDate is the FIFO key for the designer queue: delivery date when
// scheduled, creation date otherwise.
func (o *Order) QueueDate() time.Time {
	if o.DeliveryDate != nil {
		return *o.DeliveryDate
	}
	return o.CreatedAt
}
