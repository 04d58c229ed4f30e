package orders

import "time"

// TransitionDTO is the wire form of a transition request. The acting
// user comes from request headers, not the body.
type TransitionDTO struct {
	Target               Status      `json:"target_status" validate:"required"`
	Payment              *PaymentDTO `json:"payment,omitempty"`
	ClientApproved       *bool       `json:"client_approved,omitempty"`
	NewFileRef           *string     `json:"new_file_ref,omitempty"`
	CancellationReasonID *int64      `json:"cancellation_reason_id,omitempty" validate:"omitempty,gt=0"`
}

// PaymentDTO carries payment details on a transition.
type PaymentDTO struct {
	Amount      float64  `json:"amount" validate:"required,gt=0"`
	Plan        PlanType `json:"plan" validate:"required"`
	ConditionID *int64   `json:"condition_id,omitempty" validate:"omitempty,gt=0"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToRequest converts the DTO plus actor context into a machine
// request.
func (d TransitionDTO) ToRequest(actor ActingUser, at time.Time) TransitionRequest {
	req := TransitionRequest{
		Target:               d.Target,
		Actor:                actor,
		At:                   at,
		ClientApproved:       d.ClientApproved,
		NewFileRef:           d.NewFileRef,
		CancellationReasonID: d.CancellationReasonID,
	}
	if d.Payment != nil {
		req.Payment = &PaymentInput{
			Amount:      d.Payment.Amount,
			Plan:        d.Payment.Plan,
			ConditionID: d.Payment.ConditionID,
			Notes:       d.Payment.Notes,
		}
	}
	return req
}

// QuoteSummaryRequest prices a cart before an order exists.
type QuoteSummaryRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

// PaymentSuggestionRequest asks for a suggested plan amount.
type PaymentSuggestionRequest struct {
	Total float64  `json:"total" validate:"gte=0"`
	Paid  float64  `json:"paid" validate:"gte=0"`
	Plan  PlanType `json:"plan" validate:"required"`
}

// PaymentSuggestionResponse is the suggested amount plus what would
// remain once it is accepted.
type PaymentSuggestionResponse struct {
	Amount         float64 `json:"amount"`
	RemainingAfter float64 `json:"remaining_after"`
}

// AssignDesignerRequest sets the designer on an order.
type AssignDesignerRequest struct {
	DesignerID int64 `json:"designer_id" validate:"required,gt=0"`
}

// InvoiceFlagRequest toggles invoicing on an order.
type InvoiceFlagRequest struct {
	RequiresInvoice bool `json:"requires_invoice"`
}

// ReplaceLinesRequest rewrites the cart of a quoted order.
type ReplaceLinesRequest struct {
	Items []CartItem `json:"items" validate:"required,min=1,dive"`
}

// ListResponse is the order list page.
type ListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// StatusInfo describes one lifecycle status for UI consumption.
type StatusInfo struct {
	ID       int         `json:"id"`
	Key      Status      `json:"key"`
	Label    string      `json:"label"`
	Terminal bool        `json:"terminal"`
	Style    StatusStyle `json:"style"`
}

var statusLabels = map[Status]string{
	StatusQuoted:                  "Quoted",
	StatusPaid:                    "Paid",
	StatusInDesignWithSupplies:    "In Design (Supplies Verified)",
	StatusInDesignWithoutSupplies: "In Design (Awaiting Supplies)",
	StatusDesignInProgress:        "Design In Progress",
	StatusDesignUnderClientReview: "Under Client Review",
	StatusDesignApproved:          "Design Approved",
	StatusDesignRejected:          "Design Rejected",
	StatusInPrinting:              "In Printing",
	StatusReadyForDelivery:        "Ready For Delivery",
	StatusDelivered:               "Delivered",
	StatusCancelled:               "Cancelled",
}

// StatusCatalog lists every status with its label and display style.
// IDs follow lifecycle order and are stable across releases.
func StatusCatalog() []StatusInfo {
	out := make([]StatusInfo, 0, len(AllStatuses))
	for i, s := range AllStatuses {
		out = append(out, StatusInfo{
			ID:       i + 1,
			Key:      s,
			Label:    statusLabels[s],
			Terminal: s.IsTerminal(),
			Style:    StyleFor(s),
		})
	}
	return out
}
