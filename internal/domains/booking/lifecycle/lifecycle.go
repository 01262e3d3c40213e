// Package lifecycle is the single authority on which booking status and payment
// transitions are legal.
package lifecycle

import (
	"slices"
	"time"

	"sporti/internal/domains/booking/model"
	"sporti/shared/failure"
)

var transitions = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusConfirmed, model.StatusRejected, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
	model.StatusCompleted: {model.StatusCancelled},
}

var paymentTransitions = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentPending: {model.PaymentPaid, model.PaymentFailed},
	model.PaymentFailed:  {model.PaymentPaid},
}

func CanTransition(from, to model.Status) bool {
	return slices.Contains(transitions[from], to)
}

// Terminal reports whether no transition leaves s.
func Terminal(s model.Status) bool {
	return len(transitions[s]) == 0
}

func Transition(from, to model.Status) error {
	if !CanTransition(from, to) {
		return failure.Transition(string(from), string(to))
	}

	return nil
}

// Confirm checks a pending booking may be confirmed with the given allocation.
func Confirm(b model.Booking, resourceID string, totalCost int64) error {
	if err := Transition(b.Status, model.StatusConfirmed); err != nil {
		return err
	}

	if resourceID == "" {
		return failure.Unprocessable("a resource must be allocated before the booking is confirmed")
	}

	if totalCost <= 0 {
		return failure.Unprocessable("total cost must be greater than zero to confirm the booking")
	}

	return nil
}

// Occupancy describes the fields a check-in or check-out writes. Changed is false when
// the request repeats an action already applied.
type Occupancy struct {
	Status       model.Status
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	Changed      bool
}

func CheckIn(b model.Booking, at time.Time) (Occupancy, error) {
	res := Occupancy{Status: b.Status, CheckedInAt: b.CheckedInAt, CheckedOutAt: b.CheckedOutAt}

	switch b.Status {
	case model.StatusCompleted:
		return res, nil
	case model.StatusConfirmed:
		res.Status = model.StatusCompleted
		res.CheckedInAt = &at
		res.Changed = true

		return res, nil
	default:
		return res, failure.Transition(string(b.Status), string(model.StatusCompleted))
	}
}

// CheckOut records the departure. A confirmed booking is checked in first.
func CheckOut(b model.Booking, at time.Time) (Occupancy, error) {
	res, err := CheckIn(b, at)
	if err != nil {
		return res, err
	}

	if res.CheckedOutAt != nil {
		return res, nil
	}

	res.CheckedOutAt = &at
	res.Changed = true

	return res, nil
}

// Payment checks a payment status change. Repeating the current status is a no-op and
// reported as unchanged.
func Payment(from, to model.PaymentStatus) (changed bool, err error) {
	if from == to {
		return false, nil
	}

	if !slices.Contains(paymentTransitions[from], to) {
		return false, failure.Unprocessable("payment cannot move from " + string(from) + " to " + string(to))
	}

	return true, nil
}
