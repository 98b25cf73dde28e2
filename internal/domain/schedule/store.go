package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrTemplateNotFound  = errors.New("shift template not found")
	ErrTemplateNameTaken = errors.New("shift template name already exists")
	ErrScheduleNotFound  = errors.New("schedule not found")
	ErrScheduleConflict  = errors.New("employee already scheduled on that date")
	ErrReferenceNotFound = errors.New("referenced entity does not exist")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTemplates(ctx context.Context, activeOnly bool) ([]ShiftTemplate, error) {
	query := `
    SELECT id, name, start_time, end_time, break_minutes, is_active, created_at
    FROM shift_templates
  `
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ShiftTemplate
	for rows.Next() {
		var tpl ShiftTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.StartTime, &tpl.EndTime, &tpl.BreakMinutes, &tpl.IsActive, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, templateID string) (*ShiftTemplate, error) {
	var tpl ShiftTemplate
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, start_time, end_time, break_minutes, is_active, created_at
    FROM shift_templates
    WHERE id = $1
  `, templateID).Scan(&tpl.ID, &tpl.Name, &tpl.StartTime, &tpl.EndTime, &tpl.BreakMinutes, &tpl.IsActive, &tpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func insertTemplate(ctx context.Context, q querier.Querier, tpl ShiftTemplate) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO shift_templates (name, start_time, end_time, break_minutes)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, tpl.Name, tpl.StartTime, tpl.EndTime, tpl.BreakMinutes).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func updateTemplate(ctx context.Context, q querier.Querier, tpl ShiftTemplate) error {
	cmd, err := q.Exec(ctx, `
    UPDATE shift_templates
    SET name = $1, start_time = $2, end_time = $3, break_minutes = $4, is_active = $5
    WHERE id = $6
  `, tpl.Name, tpl.StartTime, tpl.EndTime, tpl.BreakMinutes, tpl.IsActive, tpl.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (s *Store) ListSchedules(ctx context.Context, employeeID string, from, to time.Time) ([]Schedule, error) {
	query := `
    SELECT s.id, s.employee_id, s.shift_template_id, t.name, s.work_date, COALESCE(s.notes, ''), s.created_at
    FROM schedules s
    JOIN shift_templates t ON t.id = s.shift_template_id
    WHERE s.work_date BETWEEN $1 AND $2
  `
	args := []any{from, to}
	if employeeID != "" {
		query += " AND s.employee_id = $3"
		args = append(args, employeeID)
	}
	query += " ORDER BY s.work_date, t.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		var sch Schedule
		if err := rows.Scan(&sch.ID, &sch.EmployeeID, &sch.ShiftTemplateID, &sch.ShiftName, &sch.Date, &sch.Notes, &sch.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sch)
	}
	return out, rows.Err()
}

func (s *Store) GetSchedule(ctx context.Context, scheduleID string) (*Schedule, error) {
	var sch Schedule
	err := s.DB.QueryRow(ctx, `
    SELECT s.id, s.employee_id, s.shift_template_id, t.name, s.work_date, COALESCE(s.notes, ''), s.created_at
    FROM schedules s
    JOIN shift_templates t ON t.id = s.shift_template_id
    WHERE s.id = $1
  `, scheduleID).Scan(&sch.ID, &sch.EmployeeID, &sch.ShiftTemplateID, &sch.ShiftName, &sch.Date, &sch.Notes, &sch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sch, nil
}

// insertSchedule relies on the (employee_id, work_date) unique constraint for
// conflict detection rather than checking first. Concurrent inserts for the
// same day both reach the database; exactly one wins.
func insertSchedule(ctx context.Context, q querier.Querier, sch Schedule) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO schedules (employee_id, shift_template_id, work_date, notes)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, sch.EmployeeID, sch.ShiftTemplateID, sch.Date, sch.Notes).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func deleteSchedule(ctx context.Context, q querier.Querier, scheduleID string) error {
	cmd, err := q.Exec(ctx, "DELETE FROM schedules WHERE id = $1", scheduleID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// Coverage lists required, scheduled and present headcount per department
// per date, graded against the department's staffing target.
func (s *Store) Coverage(ctx context.Context, from, to time.Time) ([]CoverageDay, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT s.work_date, d.id, d.name, d.required_headcount,
      COUNT(s.id),
      COUNT(a.id) FILTER (WHERE a.status IN ('present', 'late', 'half_day'))
    FROM schedules s
    JOIN department_assignments da
      ON da.employee_id = s.employee_id
      AND da.is_primary
      AND da.start_date <= s.work_date
      AND (da.end_date IS NULL OR da.end_date >= s.work_date)
    JOIN departments d ON d.id = da.department_id
    LEFT JOIN attendance_records a
      ON a.employee_id = s.employee_id AND a.work_date = s.work_date
    WHERE s.work_date BETWEEN $1 AND $2
    GROUP BY s.work_date, d.id, d.name, d.required_headcount
    ORDER BY s.work_date, d.name
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CoverageDay
	for rows.Next() {
		var day CoverageDay
		if err := rows.Scan(&day.Date, &day.DepartmentID, &day.Department, &day.Required, &day.Scheduled, &day.Present); err != nil {
			return nil, err
		}
		day.Status = CoverageStatus(day.Required, day.Scheduled)
		out = append(out, day)
	}
	return out, rows.Err()
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "shift_templates_name_key" {
				return ErrTemplateNameTaken
			}
			return ErrScheduleConflict
		case "23503":
			return ErrReferenceNotFound
		}
	}
	return err
}
