package org

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

var (
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDepartmentNameTaken = errors.New("department name already exists")
	ErrPositionNotFound    = errors.New("position not found")
	ErrReferenceNotFound   = errors.New("referenced entity does not exist")
	ErrInstitutionNotFound = errors.New("institution not configured")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) GetInstitution(ctx context.Context) (*Institution, error) {
	var inst Institution
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(address, ''), COALESCE(phone, ''), COALESCE(email, ''), created_at, updated_at
    FROM institutions
    ORDER BY created_at
    LIMIT 1
  `).Scan(&inst.ID, &inst.Name, &inst.Address, &inst.Phone, &inst.Email, &inst.CreatedAt, &inst.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInstitutionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func updateInstitution(ctx context.Context, q querier.Querier, inst Institution) error {
	cmd, err := q.Exec(ctx, `
    UPDATE institutions
    SET name = $1, address = $2, phone = $3, email = $4, updated_at = now()
    WHERE id = $5
  `, inst.Name, inst.Address, inst.Phone, inst.Email, inst.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInstitutionNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), COALESCE(parent_id::text, ''), COALESCE(manager_id::text, ''), required_headcount, is_active, created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.ParentID, &dept.ManagerID, &dept.RequiredHeadcount, &dept.IsActive, &dept.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, departmentID string) (*Department, error) {
	var dept Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, ''), COALESCE(parent_id::text, ''), COALESCE(manager_id::text, ''), required_headcount, is_active, created_at
    FROM departments
    WHERE id = $1
  `, departmentID).Scan(&dept.ID, &dept.Name, &dept.Description, &dept.ParentID, &dept.ManagerID, &dept.RequiredHeadcount, &dept.IsActive, &dept.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDepartmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ParentMap returns department id -> parent id for cycle validation.
func (s *Store) ParentMap(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, COALESCE(parent_id::text, '') FROM departments")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := map[string]string{}
	for rows.Next() {
		var id, parent string
		if err := rows.Scan(&id, &parent); err != nil {
			return nil, err
		}
		parents[id] = parent
	}
	return parents, rows.Err()
}

func insertDepartment(ctx context.Context, q querier.Querier, dept Department) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO departments (name, description, parent_id, manager_id, required_headcount)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, dept.Name, dept.Description, nullIfEmpty(dept.ParentID), nullIfEmpty(dept.ManagerID), dept.RequiredHeadcount).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func updateDepartment(ctx context.Context, q querier.Querier, dept Department) error {
	cmd, err := q.Exec(ctx, `
    UPDATE departments
    SET name = $1, description = $2, parent_id = $3, manager_id = $4, required_headcount = $5, is_active = $6
    WHERE id = $7
  `, dept.Name, dept.Description, nullIfEmpty(dept.ParentID), nullIfEmpty(dept.ManagerID), dept.RequiredHeadcount, dept.IsActive, dept.ID)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (s *Store) ListPositions(ctx context.Context, departmentID string) ([]Position, error) {
	query := `
    SELECT id, title, department_id, salary_min, salary_max, is_active, created_at
    FROM positions
  `
	var args []any
	if departmentID != "" {
		query += " WHERE department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY title"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var pos Position
		if err := rows.Scan(&pos.ID, &pos.Title, &pos.DepartmentID, &pos.SalaryMin, &pos.SalaryMax, &pos.IsActive, &pos.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, rows.Err()
}

func insertPosition(ctx context.Context, q querier.Querier, pos Position) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO positions (title, department_id, salary_min, salary_max)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, pos.Title, pos.DepartmentID, pos.SalaryMin, pos.SalaryMax).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
}

func (s *Store) ListAssignments(ctx context.Context, employeeID string) ([]DepartmentAssignment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, department_id, start_date, end_date, is_primary, created_at
    FROM department_assignments
    WHERE employee_id = $1
    ORDER BY start_date DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentAssignment
	for rows.Next() {
		var asg DepartmentAssignment
		if err := rows.Scan(&asg.ID, &asg.EmployeeID, &asg.DepartmentID, &asg.StartDate, &asg.EndDate, &asg.IsPrimary, &asg.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, asg)
	}
	return out, rows.Err()
}

// closePrimaryAssignments ends any open primary assignment before a new one
// starts, keeping a single active primary per employee.
func closePrimaryAssignments(ctx context.Context, q querier.Querier, employeeID string, endDate time.Time) error {
	_, err := q.Exec(ctx, `
    UPDATE department_assignments
    SET end_date = $1
    WHERE employee_id = $2 AND is_primary AND end_date IS NULL
  `, endDate, employeeID)
	return err
}

func insertAssignment(ctx context.Context, q querier.Querier, asg DepartmentAssignment) (string, error) {
	var id string
	err := q.QueryRow(ctx, `
    INSERT INTO department_assignments (employee_id, department_id, start_date, end_date, is_primary)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, asg.EmployeeID, asg.DepartmentID, asg.StartDate, asg.EndDate, asg.IsPrimary).Scan(&id)
	if err != nil {
		return "", translatePgError(err)
	}
	return id, nil
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
			return ErrDepartmentNameTaken
		case "23503":
			return ErrReferenceNotFound
		case "23514":
			return ErrSalaryRange
		}
	}
	return err
}
