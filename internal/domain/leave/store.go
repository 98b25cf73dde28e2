package leave

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrTypeNotFound      = errors.New("leave type not found")
	ErrTypeNameTaken     = errors.New("leave type name already exists")
	ErrRequestNotFound   = errors.New("leave request not found")
	ErrHolidayExists     = errors.New("holiday already registered for that date")
	ErrReferenceNotFound = errors.New("referenced entity does not exist")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const typeColumns = `
  id, name, COALESCE(description, ''), days_per_year, is_paid, requires_approval,
  carry_forward_allowed, max_carry_forward, is_active, created_at
`

func scanType(row pgx.Row) (*Type, error) {
	var lt Type
	err := row.Scan(&lt.ID, &lt.Name, &lt.Description, &lt.DaysPerYear, &lt.IsPaid, &lt.RequiresApproval,
		&lt.CarryForwardAllowed, &lt.MaxCarryForward, &lt.IsActive, &lt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (s *Store) ListTypes(ctx context.Context, activeOnly bool) ([]Type, error) {
	query := "SELECT " + typeColumns + " FROM leave_types"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Type
	for rows.Next() {
		lt, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lt)
	}
	return out, rows.Err()
}

func getType(ctx context.Context, q querier.Querier, typeID string) (*Type, error) {
	lt, err := scanType(q.QueryRow(ctx, "SELECT "+typeColumns+" FROM leave_types WHERE id = $1", typeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return lt, nil
}

func (s *Store) GetType(ctx context.Context, typeID string) (*Type, error) {
	return getType(ctx, s.DB, typeID)
}

func insertType(ctx context.Context, q querier.Querier, lt Type) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO leave_types (name, description, days_per_year, is_paid, requires_approval, carry_forward_allowed, max_carry_forward)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, lt.Name, lt.Description, lt.DaysPerYear, lt.IsPaid, lt.RequiresApproval, lt.CarryForwardAllowed, lt.MaxCarryForward).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func updateType(ctx context.Context, q querier.Querier, lt Type) error {
	cmd, err := q.Exec(ctx, `
    UPDATE leave_types
    SET name = $1, description = $2, days_per_year = $3, is_paid = $4, requires_approval = $5,
        carry_forward_allowed = $6, max_carry_forward = $7, is_active = $8
    WHERE id = $9
  `, lt.Name, lt.Description, lt.DaysPerYear, lt.IsPaid, lt.RequiresApproval,
		lt.CarryForwardAllowed, lt.MaxCarryForward, lt.IsActive, lt.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrTypeNotFound
	}
	return nil
}

const requestColumns = `
  r.id, r.employee_id, r.leave_type_id, t.name, r.start_date, r.end_date, r.days,
  COALESCE(r.reason, ''), r.status, COALESCE(r.approver_id::text, ''), r.decided_at, r.created_at, r.updated_at
`

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.TypeName,
		&req.StartDate, &req.EndDate, &req.Days, &req.Reason, &req.Status,
		&req.ApproverID, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

type RequestFilter struct {
	EmployeeID string
	Status     string
	Year       int
}

func (s *Store) ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	query := `
    SELECT ` + requestColumns + `
    FROM leave_requests r
    JOIN leave_types t ON t.id = r.leave_type_id
    WHERE 1=1
  `
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += " AND r.employee_id = $1"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " AND r.status = $" + strconv.Itoa(len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += " AND EXTRACT(YEAR FROM r.start_date) = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (s *Store) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN leave_types t ON t.id = r.leave_type_id
    WHERE r.id = $1
  `, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// getRequestForUpdate locks the request row for the rest of the transaction
// so concurrent decisions serialize.
func getRequestForUpdate(ctx context.Context, q querier.Querier, requestID string) (*Request, error) {
	req, err := scanRequest(q.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests r
    JOIN leave_types t ON t.id = r.leave_type_id
    WHERE r.id = $1
    FOR UPDATE OF r
  `, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func insertRequest(ctx context.Context, q querier.Querier, req Request) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type_id, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.Days, req.Reason, StatusPending).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func setRequestStatus(ctx context.Context, q querier.Querier, requestID, status, approverID string) error {
	cmd, err := q.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, approver_id = $2, decided_at = now(), updated_at = now()
    WHERE id = $3
  `, status, nullIfEmpty(approverID), requestID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// getBalance returns the stored balance row, or a zero balance when none
// exists yet for the year.
func getBalance(ctx context.Context, q querier.Querier, employeeID, typeID string, year int) (Balance, error) {
	bal := Balance{EmployeeID: employeeID, LeaveTypeID: typeID, Year: year}
	err := q.QueryRow(ctx, `
    SELECT carried_forward, used_days
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
  `, employeeID, typeID, year).Scan(&bal.CarriedForward, &bal.UsedDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return bal, nil
	}
	if err != nil {
		return Balance{}, err
	}
	return bal, nil
}

// getBalanceForUpdate pins the balance row for the rest of the transaction,
// creating it first when missing so there is always a row to lock. Two
// approvals against the same (employee, type, year) serialize here: the
// second blocks until the first commits and then reads its used_days.
func getBalanceForUpdate(ctx context.Context, q querier.Querier, employeeID, typeID string, year int) (Balance, error) {
	_, err := q.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, year)
    VALUES ($1,$2,$3)
    ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
  `, employeeID, typeID, year)
	if err != nil {
		return Balance{}, translatePgError(err)
	}

	bal := Balance{EmployeeID: employeeID, LeaveTypeID: typeID, Year: year}
	err = q.QueryRow(ctx, `
    SELECT carried_forward, used_days
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
    FOR UPDATE
  `, employeeID, typeID, year).Scan(&bal.CarriedForward, &bal.UsedDays)
	if err != nil {
		return Balance{}, err
	}
	return bal, nil
}

// adjustUsedDays moves the approved-day counter by delta, creating the
// balance row on first use.
func adjustUsedDays(ctx context.Context, q querier.Querier, employeeID, typeID string, year, delta int) error {
	_, err := q.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, year, carried_forward, used_days)
    VALUES ($1,$2,$3,0,$4)
    ON CONFLICT (employee_id, leave_type_id, year)
    DO UPDATE SET used_days = leave_balances.used_days + $4, updated_at = now()
  `, employeeID, typeID, year, delta)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

// upsertCarriedForward seeds the new year's balance row during rollover.
func upsertCarriedForward(ctx context.Context, q querier.Querier, employeeID, typeID string, year, carried int) error {
	_, err := q.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, year, carried_forward, used_days)
    VALUES ($1,$2,$3,$4,0)
    ON CONFLICT (employee_id, leave_type_id, year)
    DO UPDATE SET carried_forward = $4, updated_at = now()
  `, employeeID, typeID, year, carried)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

// Balances returns every active type with the employee's consumption and
// derived remaining days for the year.
func (s *Store) Balances(ctx context.Context, employeeID string, year int) ([]BalanceView, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.name, t.days_per_year,
      COALESCE(b.carried_forward, 0), COALESCE(b.used_days, 0)
    FROM leave_types t
    LEFT JOIN leave_balances b
      ON b.leave_type_id = t.id AND b.employee_id = $1 AND b.year = $2
    WHERE t.is_active
    ORDER BY t.name
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BalanceView
	for rows.Next() {
		view := BalanceView{Balance: Balance{EmployeeID: employeeID, Year: year}}
		if err := rows.Scan(&view.LeaveTypeID, &view.TypeName, &view.DaysPerYear, &view.CarriedForward, &view.UsedDays); err != nil {
			return nil, err
		}
		view.Remaining = view.DaysPerYear + view.CarriedForward - view.UsedDays
		out = append(out, view)
	}
	return out, rows.Err()
}

// Holidays returns the registered holidays inside [from, to] keyed by date.
func (s *Store) Holidays(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	rows, err := s.DB.Query(ctx, "SELECT holiday_date FROM holidays WHERE holiday_date BETWEEN $1 AND $2", from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := map[string]bool{}
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		holidays[date.Format(time.DateOnly)] = true
	}
	return holidays, rows.Err()
}

func (s *Store) ListHolidays(ctx context.Context, year int) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, holiday_date, name
    FROM holidays
    WHERE EXTRACT(YEAR FROM holiday_date) = $1
    ORDER BY holiday_date
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var hol Holiday
		if err := rows.Scan(&hol.ID, &hol.Date, &hol.Name); err != nil {
			return nil, err
		}
		out = append(out, hol)
	}
	return out, rows.Err()
}

func insertHoliday(ctx context.Context, q querier.Querier, hol Holiday) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO holidays (holiday_date, name)
    VALUES ($1,$2)
    RETURNING id
  `, hol.Date, hol.Name).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrHolidayExists
		}
		return "", err
	}
	return id, nil
}

func deleteHoliday(ctx context.Context, q querier.Querier, holidayID string) error {
	cmd, err := q.Exec(ctx, "DELETE FROM holidays WHERE id = $1", holidayID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReferenceNotFound
	}
	return nil
}

// carryForwardRows lists employee and type pairs eligible for rollover from
// the given year, with what they have left.
type carryForwardRow struct {
	EmployeeID string
	Type       Type
	Balance    Balance
}

func listCarryForwardRows(ctx context.Context, q querier.Querier, year int) ([]carryForwardRow, error) {
	rows, err := q.Query(ctx, `
    SELECT e.id, t.id, t.name, t.days_per_year, t.carry_forward_allowed, t.max_carry_forward, t.is_active, t.created_at,
      COALESCE(b.carried_forward, 0), COALESCE(b.used_days, 0)
    FROM employees e
    CROSS JOIN leave_types t
    LEFT JOIN leave_balances b
      ON b.employee_id = e.id AND b.leave_type_id = t.id AND b.year = $1
    WHERE e.status = 'active' AND t.is_active AND t.carry_forward_allowed
  `, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []carryForwardRow
	for rows.Next() {
		var row carryForwardRow
		if err := rows.Scan(&row.EmployeeID,
			&row.Type.ID, &row.Type.Name, &row.Type.DaysPerYear, &row.Type.CarryForwardAllowed,
			&row.Type.MaxCarryForward, &row.Type.IsActive, &row.Type.CreatedAt,
			&row.Balance.CarriedForward, &row.Balance.UsedDays); err != nil {
			return nil, err
		}
		row.Balance.EmployeeID = row.EmployeeID
		row.Balance.LeaveTypeID = row.Type.ID
		row.Balance.Year = year
		out = append(out, row)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrTypeNameTaken
		case "23503":
			return ErrReferenceNotFound
		}
	}
	return err
}
