package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/schedule"
	"hrms/internal/platform/querier"
)

type Service struct {
	DB    querier.TxBeginner
	Store *Store
}

func NewService(db querier.TxBeginner) *Service {
	return &Service{DB: db, Store: NewStore(db)}
}

// scheduledShift returns the shift template assigned to the employee for the
// date, or nil when nothing is scheduled.
func (s *Service) scheduledShift(ctx context.Context, employeeID string, date time.Time) (*schedule.ShiftTemplate, error) {
	var tpl schedule.ShiftTemplate
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.name, t.start_time, t.end_time, t.break_minutes, t.is_active, t.created_at
    FROM schedules s
    JOIN shift_templates t ON t.id = s.shift_template_id
    WHERE s.employee_id = $1 AND s.work_date = $2
  `, employeeID, date).Scan(&tpl.ID, &tpl.Name, &tpl.StartTime, &tpl.EndTime, &tpl.BreakMinutes, &tpl.IsActive, &tpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ClockIn opens the day's attendance record. Lateness is judged against the
// scheduled shift start when one exists.
func (s *Service) ClockIn(ctx context.Context, actor audit.Actor, employeeID string, at time.Time) (string, error) {
	date := at.UTC().Truncate(24 * time.Hour)

	var shiftStart *time.Time
	tpl, err := s.scheduledShift(ctx, employeeID, date)
	if err != nil {
		return "", err
	}
	if tpl != nil {
		mins, err := schedule.ParseClock(tpl.StartTime)
		if err != nil {
			return "", err
		}
		start := date.Add(time.Duration(mins) * time.Minute)
		shiftStart = &start
	}

	rec := Record{
		EmployeeID: employeeID,
		Date:       date,
		ClockIn:    &at,
		Status:     ClassifyClockIn(at, shiftStart),
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	id, err := insertRecord(ctx, tx, rec)
	if err != nil {
		return "", err
	}
	if err := audit.Record(ctx, tx, actor.Entry("attendance.clock_in", "attendance_record", id, nil, rec)); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// ClockOut closes the day's record, derives hours worked and may demote the
// status to half_day against the scheduled span.
func (s *Service) ClockOut(ctx context.Context, actor audit.Actor, employeeID string, at time.Time) error {
	date := at.UTC().Truncate(24 * time.Hour)
	before, err := s.Store.GetForDate(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if before.ClockIn == nil {
		return ErrRecordNotFound
	}

	hours, err := HoursWorked(*before.ClockIn, at)
	if err != nil {
		return err
	}

	scheduledMinutes := 0
	tpl, err := s.scheduledShift(ctx, employeeID, date)
	if err != nil {
		return err
	}
	if tpl != nil {
		scheduledMinutes, err = schedule.WorkingMinutes(*tpl)
		if err != nil {
			return err
		}
	}

	after := *before
	after.ClockOut = &at
	after.HoursWorked = hours
	after.Status = ClassifyClockOut(before.Status, hours, scheduledMinutes)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateRecord(ctx, tx, after); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("attendance.clock_out", "attendance_record", after.ID, before, after)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Correct lets an administrator rewrite a day's record, keeping the derived
// hours consistent with the corrected clock times.
func (s *Service) Correct(ctx context.Context, actor audit.Actor, rec Record) error {
	if !ValidStatus(rec.Status) {
		return ErrBadStatus
	}
	before, err := s.Store.GetForDate(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return err
	}
	rec.ID = before.ID

	if rec.ClockIn != nil && rec.ClockOut != nil {
		hours, err := HoursWorked(*rec.ClockIn, *rec.ClockOut)
		if err != nil {
			return err
		}
		rec.HoursWorked = hours
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateRecord(ctx, tx, rec); err != nil {
		return err
	}
	if err := audit.Record(ctx, tx, actor.Entry("attendance.correct", "attendance_record", rec.ID, before, rec)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CloseDay marks scheduled employees with no attendance row as absent.
func (s *Service) CloseDay(ctx context.Context, actor audit.Actor, date time.Time) (int64, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	marked, err := MarkAbsentees(ctx, tx, date)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		entry := actor.Entry("attendance.close_day", "attendance_record", date.Format(time.DateOnly), nil, map[string]any{"marked": marked})
		if err := audit.Record(ctx, tx, entry); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return marked, nil
}
