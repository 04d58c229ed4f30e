package orders

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateTransitionRequest checks the structural shape of a
// transition request before it reaches the machine. Business
// preconditions stay in the transition table.
func ValidateTransitionRequest(req TransitionRequest) error {
	if !req.Target.IsValid() {
		return fieldErr(ErrInvalidTransition, string(req.Target))
	}
	if req.Actor.ID <= 0 {
		return fieldErr(ErrPreconditionNotMet, "actingUserId")
	}
	if len(req.Actor.Roles) == 0 {
		return fieldErr(ErrRoleNotPermitted, "roles")
	}
	if req.Payment != nil {
		if req.Payment.Amount <= 0 {
			return fieldErr(ErrAmountNonPositive, "amount")
		}
		if !req.Payment.Plan.IsValid() {
			return fieldErr(ErrPreconditionNotMet, "planType")
		}
	}
	return nil
}
