package orders

import (
	"errors"
	"testing"
	"time"
)

var testClock = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func counter() ActingUser  { return ActingUser{ID: 1, Roles: []Role{RoleCounter}} }
func designer() ActingUser { return ActingUser{ID: 2, Roles: []Role{RoleDesigner}} }
func workshop() ActingUser { return ActingUser{ID: 3, Roles: []Role{RoleWorkshop}} }

func quotedOrder() *Order {
	return &Order{
		ID:          10,
		Status:      StatusQuoted,
		TotalAmount: 2000,
		LineItems: []LineItem{
			{ID: 1, OrderID: 10, ProductID: 7, Description: "Lona 2x1", UnitCost: 200, Quantity: 10, LineTotal: 2000, LineOrder: 1},
		},
		CreatedAt: testClock.Add(-24 * time.Hour),
		UpdatedAt: testClock.Add(-24 * time.Hour),
	}
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestApplyQuotedToPaid(t *testing.T) {
	o := quotedOrder()
	res, err := Apply(o, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		At:      testClock,
		Payment: &PaymentInput{Amount: 1000, Plan: PlanAdvance},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Order.Status != StatusPaid {
		t.Fatalf("status = %s, want %s", res.Order.Status, StatusPaid)
	}
	if res.Order.PaidAmount != 1000 {
		t.Fatalf("paid = %v, want 1000", res.Order.PaidAmount)
	}
	if res.Payment == nil || res.Payment.Amount != 1000 || res.Payment.Type != PlanAdvance {
		t.Fatalf("unexpected payment record: %+v", res.Payment)
	}
	if res.Entry.FromStatus != StatusQuoted || res.Entry.ToStatus != StatusPaid {
		t.Fatalf("entry %s -> %s", res.Entry.FromStatus, res.Entry.ToStatus)
	}
	if len(res.Order.History) != len(o.History)+1 {
		t.Fatalf("history grew by %d entries", len(res.Order.History)-len(o.History))
	}
	// The input snapshot must be untouched.
	if o.Status != StatusQuoted || o.PaidAmount != 0 {
		t.Fatalf("input mutated: %+v", o)
	}
}

func TestApplyPaidRequiresPayment(t *testing.T) {
	o := quotedOrder()
	_, err := Apply(o, TransitionRequest{Target: StatusPaid, Actor: counter(), At: testClock})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "payment" {
		t.Fatalf("field = %v", err)
	}
}

func TestApplyPaidRejectsShortAdvance(t *testing.T) {
	o := quotedOrder()
	// Advance on 2000 requires 1000; 400 is short even with tolerance.
	_, err := Apply(o, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		At:      testClock,
		Payment: &PaymentInput{Amount: 400, Plan: PlanAdvance},
	})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestApplyPaidRejectsOverpayment(t *testing.T) {
	o := quotedOrder()
	_, err := Apply(o, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		At:      testClock,
		Payment: &PaymentInput{Amount: 2500, Plan: PlanSingle},
	})
	if !errors.Is(err, ErrAmountExceedsBalance) {
		t.Fatalf("err = %v, want exceeds balance", err)
	}
}

func TestApplyPaidRejectsEmptyCart(t *testing.T) {
	o := quotedOrder()
	o.LineItems = nil
	_, err := Apply(o, TransitionRequest{
		Target:  StatusPaid,
		Actor:   counter(),
		At:      testClock,
		Payment: &PaymentInput{Amount: 2000, Plan: PlanSingle},
	})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}
}

func TestApplyRoleNotPermitted(t *testing.T) {
	o := quotedOrder()
	_, err := Apply(o, TransitionRequest{
		Target:  StatusPaid,
		Actor:   designer(),
		At:      testClock,
		Payment: &PaymentInput{Amount: 2000, Plan: PlanSingle},
	})
	if !errors.Is(err, ErrRoleNotPermitted) {
		t.Fatalf("err = %v, want role not permitted", err)
	}
}

func TestApplyUnknownPathRejected(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusInPrinting
	_, err := Apply(o, TransitionRequest{Target: StatusDelivered, Actor: counter(), At: testClock})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want invalid transition", err)
	}
}

func TestApplyTerminalIsImmutable(t *testing.T) {
	for _, st := range []Status{StatusDelivered, StatusCancelled} {
		o := quotedOrder()
		o.Status = st
		_, err := Apply(o, TransitionRequest{Target: StatusCancelled, Actor: counter(), At: testClock, CancellationReasonID: int64ptr(4)})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: err = %v, want invalid transition", st, err)
		}
	}
}

func TestApplyCancelRequiresReason(t *testing.T) {
	o := quotedOrder()
	_, err := Apply(o, TransitionRequest{Target: StatusCancelled, Actor: counter(), At: testClock})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}

	res, err := Apply(o, TransitionRequest{Target: StatusCancelled, Actor: counter(), At: testClock, CancellationReasonID: int64ptr(4)})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if res.Order.Status != StatusCancelled || res.Order.CancellationReasonID == nil || *res.Order.CancellationReasonID != 4 {
		t.Fatalf("unexpected cancel result: %+v", res.Order)
	}
}

func TestApplySupplyVerification(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusPaid

	res, err := Apply(o, TransitionRequest{Target: StatusInDesignWithSupplies, Actor: workshop(), At: testClock})
	if err != nil {
		t.Fatalf("with supplies: %v", err)
	}
	if !res.Order.SuppliesVerified {
		t.Fatalf("supplies not marked verified")
	}
	if len(res.PurchaseRequests) != 0 {
		t.Fatalf("unexpected purchase requests: %d", len(res.PurchaseRequests))
	}
}

func TestApplyMissingSuppliesEmitsPurchaseRequests(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusPaid

	res, err := Apply(o, TransitionRequest{Target: StatusInDesignWithoutSupplies, Actor: workshop(), At: testClock})
	if err != nil {
		t.Fatalf("without supplies: %v", err)
	}
	if res.Order.SuppliesVerified {
		t.Fatalf("supplies should be unverified")
	}
	if len(res.PurchaseRequests) != 1 {
		t.Fatalf("purchase requests = %d, want 1", len(res.PurchaseRequests))
	}
	pr := res.PurchaseRequests[0]
	if pr.OrderID != o.ID || pr.ProductID != 7 || pr.Quantity != 10 || pr.RequestedBy != workshop().ID {
		t.Fatalf("unexpected effect: %+v", pr)
	}
}

func TestApplyReviewRequiresDesignFile(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusDesignInProgress

	_, err := Apply(o, TransitionRequest{Target: StatusDesignUnderClientReview, Actor: designer(), At: testClock})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}

	// The importer placeholder does not satisfy the gate.
	o.DesignFileRef = strptr(placeholderFileRef)
	_, err = Apply(o, TransitionRequest{Target: StatusDesignUnderClientReview, Actor: designer(), At: testClock})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("placeholder accepted: %v", err)
	}

	o.DesignFileRef = strptr("designs/10/proof.pdf")
	if _, err := Apply(o, TransitionRequest{Target: StatusDesignUnderClientReview, Actor: designer(), At: testClock}); err != nil {
		t.Fatalf("with file: %v", err)
	}
}

func TestApplyApprovalLandsInPrinting(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusDesignUnderClientReview
	o.SuppliesVerified = true
	o.DesignFileRef = strptr("designs/10/proof.pdf")

	res, err := Apply(o, TransitionRequest{
		Target:         StatusDesignApproved,
		Actor:          designer(),
		At:             testClock,
		ClientApproved: boolptr(true),
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Order.Status != StatusInPrinting {
		t.Fatalf("status = %s, want %s", res.Order.Status, StatusInPrinting)
	}
	if res.Entry.ToStatus != StatusInPrinting {
		t.Fatalf("entry to = %s, want %s", res.Entry.ToStatus, StatusInPrinting)
	}
	if res.Entry.ClientApproved == nil || !*res.Entry.ClientApproved {
		t.Fatalf("entry missing approval flag")
	}
}

func TestApplyInPrintingTargetResolvesToApproval(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusDesignUnderClientReview
	o.SuppliesVerified = true
	o.DesignFileRef = strptr("designs/10/proof.pdf")

	res, err := Apply(o, TransitionRequest{
		Target:         StatusInPrinting,
		Actor:          designer(),
		At:             testClock,
		ClientApproved: boolptr(true),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Order.Status != StatusInPrinting {
		t.Fatalf("status = %s", res.Order.Status)
	}
}

func TestApplyApprovalRequiresSupplies(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusDesignUnderClientReview
	o.DesignFileRef = strptr("designs/10/proof.pdf")

	_, err := Apply(o, TransitionRequest{
		Target:         StatusDesignApproved,
		Actor:          designer(),
		At:             testClock,
		ClientApproved: boolptr(true),
	})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("err = %v, want precondition", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "suppliesVerified" {
		t.Fatalf("field = %v", err)
	}
}

func TestApplyRejectionRecordsDecision(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusDesignUnderClientReview

	_, err := Apply(o, TransitionRequest{Target: StatusDesignRejected, Actor: designer(), At: testClock})
	if !errors.Is(err, ErrPreconditionNotMet) {
		t.Fatalf("reject without decision: %v", err)
	}

	res, err := Apply(o, TransitionRequest{
		Target:         StatusDesignRejected,
		Actor:          designer(),
		At:             testClock,
		ClientApproved: boolptr(false),
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if res.Order.Status != StatusDesignRejected {
		t.Fatalf("status = %s", res.Order.Status)
	}
	if res.Entry.ClientApproved == nil || *res.Entry.ClientApproved {
		t.Fatalf("entry should carry rejection")
	}

	// Corrections loop back into progress.
	back, err := Apply(res.Order, TransitionRequest{Target: StatusDesignInProgress, Actor: designer(), At: testClock})
	if err != nil {
		t.Fatalf("rework: %v", err)
	}
	if back.Order.Status != StatusDesignInProgress {
		t.Fatalf("status = %s", back.Order.Status)
	}
}

func TestApplyDeliveryPath(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusInPrinting

	res, err := Apply(o, TransitionRequest{Target: StatusReadyForDelivery, Actor: workshop(), At: testClock})
	if err != nil {
		t.Fatalf("ready: %v", err)
	}
	res, err = Apply(res.Order, TransitionRequest{Target: StatusDelivered, Actor: counter(), At: testClock})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if res.Order.Status != StatusDelivered {
		t.Fatalf("status = %s", res.Order.Status)
	}
	if !res.Order.Status.IsTerminal() {
		t.Fatalf("delivered should be terminal")
	}
}

func TestOnOpenAutoAdvance(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusInDesignWithSupplies

	res, fired, err := OnOpen(o, designer(), testClock)
	if err != nil || !fired {
		t.Fatalf("fired=%v err=%v", fired, err)
	}
	if res.Order.Status != StatusDesignInProgress {
		t.Fatalf("status = %s", res.Order.Status)
	}
	if res.Entry.FromStatus != StatusInDesignWithSupplies || res.Entry.ToStatus != StatusDesignInProgress {
		t.Fatalf("entry %s -> %s", res.Entry.FromStatus, res.Entry.ToStatus)
	}

	// Once the stage is in the history the hook never fires again,
	// even if the order later sits in an eligible status.
	_, fired, err = OnOpen(res.Order, designer(), testClock)
	if err != nil || fired {
		t.Fatalf("second open fired=%v err=%v", fired, err)
	}
}

func TestOnOpenIgnoresNonDesigners(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusPaid
	_, fired, err := OnOpen(o, counter(), testClock)
	if err != nil || fired {
		t.Fatalf("fired=%v err=%v", fired, err)
	}
}

func TestOnOpenIgnoresOtherStatuses(t *testing.T) {
	o := quotedOrder()
	o.Status = StatusQuoted
	_, fired, err := OnOpen(o, designer(), testClock)
	if err != nil || fired {
		t.Fatalf("fired=%v err=%v", fired, err)
	}
}

func int64ptr(v int64) *int64 { return &v }
