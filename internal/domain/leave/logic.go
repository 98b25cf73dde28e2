package leave

import (
	"errors"
	"time"
)

var (
	ErrDateOrder           = errors.New("end date precedes start date")
	ErrNoWorkingDays       = errors.New("span contains no working days")
	ErrTypeInactive        = errors.New("leave type is inactive")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBadTransition       = errors.New("request state does not allow this transition")
)

// CanTransition encodes the request lifecycle. Pending requests can be
// decided or withdrawn; approved requests can still be cancelled, which
// re-credits the balance. Rejected and cancelled are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusCancelled
	}
	return false
}

// BusinessDays counts Monday to Friday dates in [start, end], skipping
// holidays keyed by time.DateOnly.
func BusinessDays(start, end time.Time, holidays map[string]bool) (int, error) {
	if end.Before(start) {
		return 0, ErrDateOrder
	}
	days := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		if holidays[day.Format(time.DateOnly)] {
			continue
		}
		days++
	}
	return days, nil
}

// Remaining is the entitlement left this year: annual allowance plus what
// carried over, minus approved days already taken.
func Remaining(lt Type, bal Balance) int {
	return lt.DaysPerYear + bal.CarriedForward - bal.UsedDays
}

// CarryForward computes how many unused days roll into the next year.
func CarryForward(lt Type, bal Balance) int {
	if !lt.CarryForwardAllowed {
		return 0
	}
	remaining := Remaining(lt, bal)
	if remaining <= 0 {
		return 0
	}
	if remaining > lt.MaxCarryForward {
		return lt.MaxCarryForward
	}
	return remaining
}
