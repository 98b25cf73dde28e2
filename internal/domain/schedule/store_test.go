package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertScheduleTranslatesUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO schedules").
		WithArgs("42", "tpl-1", date, "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "schedules_employee_id_work_date_key"})

	_, err = insertSchedule(context.Background(), mock, Schedule{
		EmployeeID:      "42",
		ShiftTemplateID: "tpl-1",
		Date:            date,
	})
	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertScheduleTranslatesMissingEmployee(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO schedules").
		WithArgs("ghost", "tpl-1", date, "").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err = insertSchedule(context.Background(), mock, Schedule{
		EmployeeID:      "ghost",
		ShiftTemplateID: "tpl-1",
		Date:            date,
	})
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertTemplateTranslatesDuplicateName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO shift_templates").
		WithArgs("Morning", "09:00", "17:00", 60).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "shift_templates_name_key"})

	_, err = insertTemplate(context.Background(), mock, ShiftTemplate{
		Name:         "Morning",
		StartTime:    "09:00",
		EndTime:      "17:00",
		BreakMinutes: 60,
	})
	assert.ErrorIs(t, err, ErrTemplateNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoverageGradesAgainstRequiredHeadcount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM schedules s").WithArgs(from, to).
		WillReturnRows(mock.NewRows([]string{"work_date", "id", "name", "required_headcount", "count", "count"}).
			AddRow(from, "dep-1", "Engineering", 10, 8, 7).
			AddRow(to, "dep-1", "Engineering", 10, 11, 10))

	days, err := NewStore(mock).Coverage(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 10, days[0].Required)
	assert.Equal(t, CoverageUnderstaffed, days[0].Status)
	assert.Equal(t, CoverageOverstaffed, days[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertScheduleReturnsID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO schedules").
		WithArgs("42", "tpl-1", date, "swap cover").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("sch-1"))

	id, err := insertSchedule(context.Background(), mock, Schedule{
		EmployeeID:      "42",
		ShiftTemplateID: "tpl-1",
		Date:            date,
		Notes:           "swap cover",
	})
	require.NoError(t, err)
	assert.Equal(t, "sch-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
