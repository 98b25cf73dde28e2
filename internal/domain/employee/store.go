package employee

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNoTaken   = errors.New("employee number already exists")
	ErrReferenceNotFound = errors.New("referenced entity does not exist")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  e.id, e.user_id, e.employee_no, e.first_name, e.last_name, u.email,
  e.hire_date, e.salary, COALESCE(e.position_id::text, ''), COALESCE(e.manager_id::text, ''),
  COALESCE(e.address, '{}'), COALESCE(e.contact, '{}'), COALESCE(e.certifications, '[]'),
  e.status, e.created_at, e.updated_at
`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeNo, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.HireDate, &emp.Salary, &emp.PositionID, &emp.ManagerID,
		&emp.Address, &emp.Contact, &emp.Certifications,
		&emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE e.id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Store) GetByUser(ctx context.Context, userID string) (*Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    JOIN users u ON u.id = e.user_id
    WHERE e.user_id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

type ListFilter struct {
	DepartmentID string
	Status       string
	Search       string
	Limit        int
	Offset       int
}

func (s *Store) ListEmployees(ctx context.Context, filter ListFilter) ([]Employee, error) {
	query := `
    SELECT ` + employeeColumns + `
    FROM employees e
    JOIN users u ON u.id = e.user_id
  `
	var (
		where []string
		args  []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.DepartmentID != "" {
		where = append(where, `e.id IN (
      SELECT employee_id FROM department_assignments
      WHERE department_id = `+arg(filter.DepartmentID)+` AND end_date IS NULL
    )`)
	}
	if filter.Status != "" {
		where = append(where, "e.status = "+arg(filter.Status))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, "(e.first_name ILIKE "+p+" OR e.last_name ILIKE "+p+" OR e.employee_no ILIKE "+p+")")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.last_name, e.first_name"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

// ManagerMap returns employee id -> manager id for cycle validation.
func (s *Store) ManagerMap(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, COALESCE(manager_id::text, '') FROM employees")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	managers := map[string]string{}
	for rows.Next() {
		var id, manager string
		if err := rows.Scan(&id, &manager); err != nil {
			return nil, err
		}
		managers[id] = manager
	}
	return managers, rows.Err()
}

// OrgChart builds reporting trees from active employees.
func (s *Store) OrgChart(ctx context.Context) ([]*OrgChartNode, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name || ' ' || last_name, employee_no, COALESCE(manager_id::text, '')
    FROM employees
    WHERE status = $1
  `, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []chartRow
	for rows.Next() {
		var row chartRow
		if err := rows.Scan(&row.ID, &row.Name, &row.EmployeeNo, &row.ManagerID); err != nil {
			return nil, err
		}
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return BuildOrgChart(flat), nil
}

func insertEmployee(ctx context.Context, q querier.Querier, emp Employee) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_no, first_name, last_name, hire_date, salary,
      position_id, manager_id, address, contact, certifications, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, emp.UserID, emp.EmployeeNo, emp.FirstName, emp.LastName, emp.HireDate, emp.Salary,
		nullIfEmpty(emp.PositionID), nullIfEmpty(emp.ManagerID),
		emp.Address, emp.Contact, emp.Certifications, StatusActive).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func updateEmployee(ctx context.Context, q querier.Querier, emp Employee) error {
	cmd, err := q.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, hire_date = $3, salary = $4,
        position_id = $5, manager_id = $6, address = $7, contact = $8,
        certifications = $9, updated_at = now()
    WHERE id = $10
  `, emp.FirstName, emp.LastName, emp.HireDate, emp.Salary,
		nullIfEmpty(emp.PositionID), nullIfEmpty(emp.ManagerID),
		emp.Address, emp.Contact, emp.Certifications, emp.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func setEmployeeStatus(ctx context.Context, q querier.Querier, employeeID, status string) error {
	cmd, err := q.Exec(ctx, `
    UPDATE employees
    SET status = $1, updated_at = now()
    WHERE id = $2
  `, status, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
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
			return ErrEmployeeNoTaken
		case "23503":
			return ErrReferenceNotFound
		}
	}
	return err
}
