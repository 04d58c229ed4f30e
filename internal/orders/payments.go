package orders

import (
	"math"
)

// Payment plan thresholds. They mirror the register's long-standing
// policy: installments only from 1000 up, three installments from
// 3000 up. Confirm with the shop owner before changing either.
const (
	installmentMinTotal = 1000.0
	threeWayThreshold   = 3000.0

	// amountEpsilon absorbs rounding drift when comparing money.
	amountEpsilon = 0.5
)

// Balance returns the open balance, floored at zero.
func Balance(total, paid float64) float64 {
	return round2(math.Max(0, total-paid))
}

// SuggestAmount computes the suggested payment for a plan given the
// order total and what was already paid.
func SuggestAmount(plan PlanType, total, paid float64) (float64, error) {
	balance := Balance(total, paid)
	switch plan {
	case PlanSingle:
		return balance, nil
	case PlanAdvance:
		return round2(math.Max(0, math.Min(0.5*total, balance))), nil
	case PlanInstallment:
		if total < installmentMinTotal {
			return 0, fieldErr(ErrPreconditionNotMet, "planType")
		}
		divisor := 2.0
		if total >= threeWayThreshold {
			divisor = 3.0
		}
		return round2(math.Max(0, math.Min(total/divisor, balance))), nil
	default:
		return 0, fieldErr(ErrPreconditionNotMet, "planType")
	}
}

// RemainingAfter returns the balance left once the given amount is
// accepted.
func RemainingAfter(total, paid, amount float64) float64 {
	return round2(math.Max(0, Balance(total, paid)-amount))
}

// ValidatePaymentAmount enforces the payment invariants: positive
// amounts only, and never more than the open balance plus the
// rounding tolerance. paidAmount stays monotonically non-decreasing
// and below totalAmount + epsilon for every reachable order.
func ValidatePaymentAmount(total, paid, amount float64) error {
	if amount <= 0 {
		return fieldErr(ErrAmountNonPositive, "amount")
	}
	if amount > Balance(total, paid)+amountEpsilon {
		return fieldErr(ErrAmountExceedsBalance, "amount")
	}
	return nil
}
