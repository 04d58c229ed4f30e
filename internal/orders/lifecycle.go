package orders

import (
	"time"
)

// placeholderFileRef is the marker the legacy importer used for orders
// that never had a real asset attached. It does not satisfy the
// design-file gate.
const placeholderFileRef = "placeholder"

// PaymentInput is the payment detail accompanying a Quoted->Paid
// transition or a later installment.
type PaymentInput struct {
	Amount      float64
	Plan        PlanType
	ConditionID *int64
	Notes       *string
}

// TransitionRequest describes one requested status change. The actor
// is always explicit; nothing is read from ambient state.
type TransitionRequest struct {
	Target               Status
	Actor                ActingUser
	At                   time.Time
	Payment              *PaymentInput
	ClientApproved       *bool
	NewFileRef           *string
	CancellationReasonID *int64
}

// PurchaseRequestEffect asks the procurement sink to order supplies
// for one line item. Effects are computed by the machine and carried
// out by the caller after the snapshot is persisted.
type PurchaseRequestEffect struct {
	OrderID     int64
	ProductID   int64
	Quantity    float64
	Note        string
	RequestedBy int64
}

// Result is the outcome of a successful transition: the new snapshot,
// the history entry that was appended, and any side effects for the
// caller to dispatch.
type Result struct {
	Order            *Order
	Entry            HistoryEntry
	Payment          *PaymentRecord
	PurchaseRequests []PurchaseRequestEffect
}

type transitionRule struct {
	from  []Status // nil means any non-terminal status
	to    Status
	roles []Role
	check func(o *Order, req TransitionRequest) error
	apply func(o *Order, req TransitionRequest, res *Result)
}

func (r transitionRule) allowsFrom(s Status) bool {
	if r.from == nil {
		return !s.IsTerminal()
	}
	for _, f := range r.from {
		if f == s {
			return true
		}
	}
	return false
}

// transitionTable is the single source of truth for what may move
// where, by whom, and with which preconditions. Every screen derives
// its gating from this table instead of re-implementing it.
var transitionTable = []transitionRule{
	{
		from:  []Status{StatusQuoted},
		to:    StatusPaid,
		roles: []Role{RoleCounter, RoleFinance},
		check: checkInitialPayment,
		apply: applyPayment,
	},
	{
		to:    StatusInDesignWithSupplies,
		roles: []Role{RoleWorkshop},
		apply: func(o *Order, _ TransitionRequest, _ *Result) {
			o.SuppliesVerified = true
		},
	},
	{
		to:    StatusInDesignWithoutSupplies,
		roles: []Role{RoleWorkshop},
		apply: func(o *Order, req TransitionRequest, res *Result) {
			o.SuppliesVerified = false
			for _, li := range o.LineItems {
				res.PurchaseRequests = append(res.PurchaseRequests, PurchaseRequestEffect{
					OrderID:     o.ID,
					ProductID:   li.ProductID,
					Quantity:    li.Quantity,
					Note:        li.Description,
					RequestedBy: req.Actor.ID,
				})
			}
		},
	},
	{
		from:  []Status{StatusDesignInProgress},
		to:    StatusDesignUnderClientReview,
		roles: []Role{RoleDesigner},
		check: checkDesignFile,
	},
	{
		from:  []Status{StatusDesignInProgress, StatusDesignUnderClientReview},
		to:    StatusDesignApproved,
		roles: []Role{RoleDesigner},
		check: checkApproval,
		apply: applyApproval,
	},
	{
		from:  []Status{StatusDesignInProgress, StatusDesignUnderClientReview},
		to:    StatusDesignRejected,
		roles: []Role{RoleDesigner},
		check: func(_ *Order, req TransitionRequest) error {
			if req.ClientApproved == nil || *req.ClientApproved {
				return fieldErr(ErrPreconditionNotMet, "clientApproved")
			}
			return nil
		},
		apply: func(_ *Order, _ TransitionRequest, res *Result) {
			rejected := false
			res.Entry.ClientApproved = &rejected
		},
	},
	{
		from:  []Status{StatusDesignRejected},
		to:    StatusDesignInProgress,
		roles: []Role{RoleDesigner},
	},
	{
		from:  []Status{StatusInPrinting},
		to:    StatusReadyForDelivery,
		roles: []Role{RoleWorkshop},
	},
	{
		from:  []Status{StatusReadyForDelivery},
		to:    StatusDelivered,
		roles: []Role{RoleCounter, RoleFinance},
	},
	{
		to:    StatusCancelled,
		roles: []Role{RoleCounter, RoleFinance},
		check: func(_ *Order, req TransitionRequest) error {
			if req.CancellationReasonID == nil {
				return fieldErr(ErrPreconditionNotMet, "cancellationReasonId")
			}
			return nil
		},
		apply: func(o *Order, req TransitionRequest, _ *Result) {
			o.CancellationReasonID = req.CancellationReasonID
		},
	},
}

// Apply validates the requested transition against the transition
// table and returns a new snapshot with the transition applied. The
// input order is never mutated; on any error the caller's snapshot is
// unchanged and no side effect is produced.
func Apply(o *Order, req TransitionRequest) (*Result, error) {
	target := req.Target
	// The client-approval screen may request either the decision
	// status or the stage it lands in; both resolve to the same rule.
	if target == StatusInPrinting && (o.Status == StatusDesignInProgress || o.Status == StatusDesignUnderClientReview) {
		target = StatusDesignApproved
	}
	if !target.IsValid() {
		return nil, fieldErr(ErrInvalidTransition, string(req.Target))
	}
	if o.Status.IsTerminal() {
		return nil, fieldErr(ErrInvalidTransition, string(o.Status))
	}

	var rule *transitionRule
	for i := range transitionTable {
		r := &transitionTable[i]
		if r.to == target && r.allowsFrom(o.Status) {
			rule = r
			break
		}
	}
	if rule == nil {
		return nil, fieldErr(ErrInvalidTransition, string(o.Status)+" -> "+string(req.Target))
	}

	if !req.Actor.HasAny(rule.roles...) {
		return nil, fieldErr(ErrRoleNotPermitted, string(target))
	}
	if rule.check != nil {
		if err := rule.check(o, req); err != nil {
			return nil, err
		}
	}

	next := o.Clone()
	res := &Result{
		Entry: HistoryEntry{
			OrderID:      o.ID,
			FromStatus:   o.Status,
			ActingUserID: req.Actor.ID,
			CreatedAt:    req.At,
		},
	}
	next.Status = target
	if rule.apply != nil {
		rule.apply(next, req, res)
	}
	// applyApproval may land the order past the requested status.
	res.Entry.ToStatus = next.Status
	next.History = append(next.History, res.Entry)
	next.UpdatedAt = req.At
	res.Order = next
	return res, nil
}

// OnOpen fires the one-time auto-advance to DesignInProgress when a
// designer opens an order sitting in a pre-design status. The history
// check makes repeated opens a no-op, so concurrent views of the same
// snapshot cannot double-fire the stage entry. Returns fired=false
// when no transition applies.
func OnOpen(o *Order, actor ActingUser, at time.Time) (*Result, bool, error) {
	if !actor.HasAny(RoleDesigner) {
		return nil, false, nil
	}
	switch o.Status {
	case StatusPaid, StatusInDesignWithSupplies, StatusInDesignWithoutSupplies:
	default:
		return nil, false, nil
	}
	if o.HasVisited(StatusDesignInProgress) {
		return nil, false, nil
	}

	next := o.Clone()
	entry := HistoryEntry{
		OrderID:      o.ID,
		FromStatus:   o.Status,
		ToStatus:     StatusDesignInProgress,
		ActingUserID: actor.ID,
		CreatedAt:    at,
	}
	next.Status = StatusDesignInProgress
	next.History = append(next.History, entry)
	next.UpdatedAt = at
	return &Result{Order: next, Entry: entry}, true, nil
}

func checkInitialPayment(o *Order, req TransitionRequest) error {
	if len(o.LineItems) == 0 {
		return fieldErr(ErrPreconditionNotMet, "lineItems")
	}
	if req.Payment == nil {
		return fieldErr(ErrPreconditionNotMet, "payment")
	}
	p := req.Payment
	if !p.Plan.IsValid() {
		return fieldErr(ErrPreconditionNotMet, "planType")
	}
	if err := ValidatePaymentAmount(o.TotalAmount, o.PaidAmount, p.Amount); err != nil {
		return err
	}
	required, err := SuggestAmount(p.Plan, o.TotalAmount, o.PaidAmount)
	if err != nil {
		return err
	}
	if p.Amount+amountEpsilon < required {
		return fieldErr(ErrPreconditionNotMet, "amount")
	}
	return nil
}

func applyPayment(o *Order, req TransitionRequest, res *Result) {
	p := req.Payment
	o.PaidAmount = round2(o.PaidAmount + p.Amount)
	res.Payment = &PaymentRecord{
		OrderID:     o.ID,
		Amount:      round2(p.Amount),
		Type:        p.Plan,
		ConditionID: p.ConditionID,
		Notes:       p.Notes,
		CreatedAt:   req.At,
	}
}

func checkDesignFile(o *Order, req TransitionRequest) error {
	if req.NewFileRef != nil && *req.NewFileRef != "" {
		return nil
	}
	if o.DesignFileRef != nil && *o.DesignFileRef != "" && *o.DesignFileRef != placeholderFileRef {
		return nil
	}
	return fieldErr(ErrPreconditionNotMet, "designFileRef")
}

func checkApproval(o *Order, req TransitionRequest) error {
	if req.ClientApproved == nil || !*req.ClientApproved {
		return fieldErr(ErrPreconditionNotMet, "clientApproved")
	}
	if err := checkDesignFile(o, req); err != nil {
		return err
	}
	if !o.SuppliesVerified {
		return fieldErr(ErrPreconditionNotMet, "suppliesVerified")
	}
	return nil
}

// applyApproval records the client decision and moves the order
// straight into printing; DESIGN_APPROVED is a decision, not a
// resting stage.
func applyApproval(o *Order, req TransitionRequest, res *Result) {
	if req.NewFileRef != nil && *req.NewFileRef != "" {
		ref := *req.NewFileRef
		o.DesignFileRef = &ref
	}
	approved := true
	res.Entry.ClientApproved = &approved
	o.Status = StatusInPrinting
}
