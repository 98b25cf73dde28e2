package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemaining(t *testing.T) {
	annual := Type{Name: "Annual", DaysPerYear: 25}
	bal := Balance{CarriedForward: 3, UsedDays: 18}

	assert.Equal(t, 10, Remaining(annual, bal))
}

func TestRemainingCanGoNegativeAfterConfigChange(t *testing.T) {
	// Shrinking the allowance after approvals leaves a deficit, not zero.
	annual := Type{Name: "Annual", DaysPerYear: 10}
	bal := Balance{UsedDays: 12}

	assert.Equal(t, -2, Remaining(annual, bal))
}

func TestBusinessDaysSkipsWeekends(t *testing.T) {
	// Monday 2025-06-02 through Sunday 2025-06-08.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	days, err := BusinessDays(start, end, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestBusinessDaysSkipsHolidays(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	holidays := map[string]bool{"2025-06-04": true}

	days, err := BusinessDays(start, end, holidays)
	require.NoError(t, err)
	assert.Equal(t, 4, days)
}

func TestBusinessDaysSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	days, err := BusinessDays(day, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, days)
}

func TestBusinessDaysRejectsReversedSpan(t *testing.T) {
	start := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := BusinessDays(start, end, nil)
	assert.ErrorIs(t, err, ErrDateOrder)
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusApproved},
		{StatusPending, StatusRejected},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCancelled},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{StatusApproved, StatusApproved},
		{StatusApproved, StatusRejected},
		{StatusRejected, StatusApproved},
		{StatusRejected, StatusCancelled},
		{StatusCancelled, StatusApproved},
		{StatusCancelled, StatusCancelled},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestCarryForward(t *testing.T) {
	annual := Type{DaysPerYear: 25, CarryForwardAllowed: true, MaxCarryForward: 5}

	// 25 - 18 = 7 left, capped at 5.
	assert.Equal(t, 5, CarryForward(annual, Balance{UsedDays: 18}))

	// 25 - 22 = 3 left, below the cap.
	assert.Equal(t, 3, CarryForward(annual, Balance{UsedDays: 22}))

	// Fully used, nothing rolls.
	assert.Equal(t, 0, CarryForward(annual, Balance{UsedDays: 25}))
}

func TestCarryForwardDisallowedType(t *testing.T) {
	sick := Type{DaysPerYear: 10, CarryForwardAllowed: false, MaxCarryForward: 0}
	assert.Equal(t, 0, CarryForward(sick, Balance{UsedDays: 2}))
}
