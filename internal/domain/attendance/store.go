package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrAlreadyClockedIn  = errors.New("employee already clocked in on that date")
	ErrReferenceNotFound = errors.New("referenced entity does not exist")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const recordColumns = `
  id, employee_id, work_date, clock_in, clock_out, status, hours_worked, COALESCE(notes, ''), created_at, updated_at
`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
		&rec.Status, &rec.HoursWorked, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) GetForDate(ctx context.Context, employeeID string, date time.Time) (*Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND work_date = $2
  `, employeeID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error) {
	query := `
    SELECT ` + recordColumns + `
    FROM attendance_records
    WHERE work_date BETWEEN $1 AND $2
  `
	args := []any{from, to}
	if employeeID != "" {
		query += " AND employee_id = $3"
		args = append(args, employeeID)
	}
	query += " ORDER BY work_date, employee_id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Summarize aggregates attendance per employee across a period.
func (s *Store) Summarize(ctx context.Context, employeeID string, from, to time.Time) (*Summary, error) {
	var sum Summary
	sum.EmployeeID = employeeID
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
      COUNT(1) FILTER (WHERE status = 'present'),
      COUNT(1) FILTER (WHERE status = 'late'),
      COUNT(1) FILTER (WHERE status = 'half_day'),
      COUNT(1) FILTER (WHERE status = 'absent'),
      COALESCE(SUM(hours_worked), 0)
    FROM attendance_records
    WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
  `, employeeID, from, to).Scan(&sum.Days, &sum.Present, &sum.Late, &sum.HalfDays, &sum.Absences, &sum.TotalHours)
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// insertRecord relies on the (employee_id, work_date) unique constraint; a
// second clock-in for the same day surfaces as ErrAlreadyClockedIn.
func insertRecord(ctx context.Context, q querier.Querier, rec Record) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, work_date, clock_in, clock_out, status, hours_worked, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, rec.EmployeeID, rec.Date, rec.ClockIn, rec.ClockOut, rec.Status, rec.HoursWorked, rec.Notes).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func updateRecord(ctx context.Context, q querier.Querier, rec Record) error {
	cmd, err := q.Exec(ctx, `
    UPDATE attendance_records
    SET clock_in = $1, clock_out = $2, status = $3, hours_worked = $4, notes = $5, updated_at = now()
    WHERE id = $6
  `, rec.ClockIn, rec.ClockOut, rec.Status, rec.HoursWorked, rec.Notes, rec.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// MarkAbsentees inserts absent records for employees scheduled on date with
// no attendance row. Returns how many rows were created.
func MarkAbsentees(ctx context.Context, q querier.Querier, date time.Time) (int64, error) {
	cmd, err := q.Exec(ctx, `
    INSERT INTO attendance_records (employee_id, work_date, status, hours_worked)
    SELECT s.employee_id, s.work_date, 'absent', 0
    FROM schedules s
    WHERE s.work_date = $1
      AND NOT EXISTS (
        SELECT 1 FROM attendance_records a
        WHERE a.employee_id = s.employee_id AND a.work_date = s.work_date
      )
    ON CONFLICT (employee_id, work_date) DO NOTHING
  `, date)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyClockedIn
		case "23503":
			return ErrReferenceNotFound
		}
	}
	return err
}
