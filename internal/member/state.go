package member

import (
	"fmt"

	"gymcore/internal/apperr"
)

// Operation is a trigger of the membership lifecycle.
type Operation string

const (
	OpAssignPlan Operation = "assign_plan"
	OpRenew      Operation = "renew"
	OpFreeze     Operation = "freeze"
	OpUnfreeze   Operation = "unfreeze"
	OpGiftDays   Operation = "gift_days"
	OpToggle     Operation = "toggle"
	OpCancel     Operation = "cancel"
	OpUseBenefit Operation = "use_benefit"
	OpExpire     Operation = "expire"
)

// transitions maps each operation to the states it may start from and the
// state it leaves the member in. A missing entry is a rejected transition.
var transitions = map[Operation]map[Status]Status{
	OpAssignPlan: {StatusActive: StatusActive},
	OpRenew:      {StatusActive: StatusActive, StatusExpired: StatusActive},
	OpFreeze:     {StatusActive: StatusFrozen},
	OpUnfreeze:   {StatusFrozen: StatusActive},
	OpGiftDays:   {StatusActive: StatusActive},
	OpToggle:     {StatusActive: StatusInactive, StatusInactive: StatusActive},
	OpCancel: {
		StatusActive:   StatusCancelled,
		StatusInactive: StatusCancelled,
		StatusFrozen:   StatusCancelled,
		StatusExpired:  StatusCancelled,
	},
	OpUseBenefit: {StatusActive: StatusActive},
	OpExpire:     {StatusActive: StatusExpired},
}

// Next returns the state op moves a member in from to.
func Next(op Operation, from Status) (Status, bool) {
	to, ok := transitions[op][from]
	return to, ok
}

func CanTransition(op Operation, from Status) bool {
	_, ok := Next(op, from)
	return ok
}

func transitionError(op Operation, from Status) error {
	return apperr.Conflict(fmt.Sprintf("cannot %s a member in status %s", op, from))
}
