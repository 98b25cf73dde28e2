package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shiftStartAt(t *testing.T, clock string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, "2025-06-02T"+clock+":00Z")
	require.NoError(t, err)
	return &parsed
}

func TestClassifyClockIn(t *testing.T) {
	start := shiftStartAt(t, "09:00")

	onTime := time.Date(2025, 6, 2, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, StatusPresent, ClassifyClockIn(onTime, start))

	// Grace runs out fifteen minutes after the shift start.
	late := time.Date(2025, 6, 2, 9, 16, 0, 0, time.UTC)
	assert.Equal(t, StatusLate, ClassifyClockIn(late, start))

	assert.Equal(t, StatusPresent, ClassifyClockIn(late, nil))
}

func TestHoursWorked(t *testing.T) {
	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 17, 30, 0, 0, time.UTC)

	hours, err := HoursWorked(in, out)
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)
}

func TestHoursWorkedAcrossMidnight(t *testing.T) {
	in := time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC)

	hours, err := HoursWorked(in, out)
	require.NoError(t, err)
	assert.Equal(t, 8.0, hours)
}

func TestHoursWorkedRejectsReversedClocks(t *testing.T) {
	in := time.Date(2025, 6, 2, 17, 0, 0, 0, time.UTC)
	out := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	_, err := HoursWorked(in, out)
	assert.ErrorIs(t, err, ErrClockOrder)
}

func TestClassifyClockOut(t *testing.T) {
	// 420 scheduled minutes, worked only 3 hours.
	assert.Equal(t, StatusHalfDay, ClassifyClockOut(StatusPresent, 3, 420))

	// Late arrival that still covers the shift stays late.
	assert.Equal(t, StatusLate, ClassifyClockOut(StatusLate, 7, 420))

	// No schedule, nothing to demote against.
	assert.Equal(t, StatusPresent, ClassifyClockOut(StatusPresent, 1, 0))
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPresent, StatusLate, StatusHalfDay, StatusAbsent} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("vacationing"))
}
