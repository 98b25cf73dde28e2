package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	mins, err := ParseClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, 540, mins)

	mins, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, mins)
}

func TestParseClockRejectsGarbage(t *testing.T) {
	for _, value := range []string{"", "9", "24:00", "12:60", "ab:cd", "12:3x"} {
		_, err := ParseClock(value)
		assert.ErrorIs(t, err, ErrBadClock, "value %q", value)
	}
}

func TestWorkingMinutesDayShift(t *testing.T) {
	tpl := ShiftTemplate{StartTime: "09:00", EndTime: "17:00", BreakMinutes: 60}
	mins, err := WorkingMinutes(tpl)
	require.NoError(t, err)
	assert.Equal(t, 420, mins)
}

func TestWorkingMinutesNightShiftWrapsMidnight(t *testing.T) {
	tpl := ShiftTemplate{StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30}
	mins, err := WorkingMinutes(tpl)
	require.NoError(t, err)
	assert.Equal(t, 450, mins)
}

func TestWorkingMinutesEqualTimesIsFullDay(t *testing.T) {
	tpl := ShiftTemplate{StartTime: "08:00", EndTime: "08:00"}
	mins, err := WorkingMinutes(tpl)
	require.NoError(t, err)
	assert.Equal(t, 1440, mins)
}

func TestCoverageStatus(t *testing.T) {
	assert.Equal(t, CoverageUnderstaffed, CoverageStatus(10, 8))
	assert.Equal(t, CoverageOptimal, CoverageStatus(10, 10))
	assert.Equal(t, CoverageOverstaffed, CoverageStatus(10, 12))
	assert.Equal(t, CoverageOptimal, CoverageStatus(0, 0))
}

func TestWorkingMinutesRejectsOversizedBreak(t *testing.T) {
	tpl := ShiftTemplate{StartTime: "09:00", EndTime: "10:00", BreakMinutes: 60}
	_, err := WorkingMinutes(tpl)
	assert.ErrorIs(t, err, ErrBreakTooLong)

	tpl.BreakMinutes = -5
	_, err = WorkingMinutes(tpl)
	assert.ErrorIs(t, err, ErrBreakTooLong)
}
