package attendance

import (
	"errors"
	"math"
	"time"
)

var (
	ErrClockOrder = errors.New("clock-out precedes clock-in")
	ErrBadStatus  = errors.New("unknown attendance status")
)

// lateGrace is how far past the shift start a clock-in still counts as on
// time.
const lateGrace = 15 * time.Minute

// ClassifyClockIn decides present vs late against the scheduled shift start.
// Without a schedule there is nothing to be late against.
func ClassifyClockIn(clockIn time.Time, shiftStart *time.Time) string {
	if shiftStart == nil {
		return StatusPresent
	}
	if clockIn.After(shiftStart.Add(lateGrace)) {
		return StatusLate
	}
	return StatusPresent
}

// HoursWorked derives the worked span, rounded to two decimals.
func HoursWorked(clockIn, clockOut time.Time) (float64, error) {
	if clockOut.Before(clockIn) {
		return 0, ErrClockOrder
	}
	hours := clockOut.Sub(clockIn).Hours()
	return math.Round(hours*100) / 100, nil
}

// ClassifyClockOut reconsiders the day's status once the worked span is
// known. Working less than half the scheduled minutes demotes the day to
// half_day; a late arrival stays late unless demoted further.
func ClassifyClockOut(current string, workedHours float64, scheduledMinutes int) string {
	if scheduledMinutes <= 0 {
		return current
	}
	if workedHours*60 < float64(scheduledMinutes)/2 {
		return StatusHalfDay
	}
	return current
}

// ValidStatus reports whether a manually supplied status is recognized.
func ValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent:
		return true
	}
	return false
}
