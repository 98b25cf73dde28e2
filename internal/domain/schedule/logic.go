package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadClock      = errors.New("clock value must be HH:MM")
	ErrBreakTooLong  = errors.New("break exceeds shift length")
	ErrTemplateIdle  = errors.New("shift template is inactive")
	ErrEmptyDateSpan = errors.New("end date precedes start date")
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, value)
	}
	return hh*60 + mm, nil
}

// WorkingMinutes derives the paid span of a template. A shift ending at or
// before its start wraps to the next day, so 22:00 to 06:00 is eight hours.
func WorkingMinutes(tpl ShiftTemplate) (int, error) {
	start, err := ParseClock(tpl.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(tpl.EndTime)
	if err != nil {
		return 0, err
	}
	span := end - start
	if span <= 0 {
		span += minutesPerDay
	}
	if tpl.BreakMinutes < 0 || tpl.BreakMinutes >= span {
		return 0, fmt.Errorf("%w: %d minute break in %d minute shift", ErrBreakTooLong, tpl.BreakMinutes, span)
	}
	return span - tpl.BreakMinutes, nil
}

// ValidateTemplate checks a template before it is stored.
func ValidateTemplate(tpl ShiftTemplate) error {
	_, err := WorkingMinutes(tpl)
	return err
}

// Coverage grades, comparing a day's scheduled headcount against the
// department's required one.
const (
	CoverageUnderstaffed = "understaffed"
	CoverageOptimal      = "optimal"
	CoverageOverstaffed  = "overstaffed"
)

// CoverageStatus classifies one department day.
func CoverageStatus(required, scheduled int) string {
	switch {
	case scheduled < required:
		return CoverageUnderstaffed
	case scheduled > required:
		return CoverageOverstaffed
	default:
		return CoverageOptimal
	}
}
