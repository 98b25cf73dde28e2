package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

type leaveTypeSeed struct {
	Name             string
	Description      string
	DaysPerYear      int
	IsPaid           bool
	RequiresApproval bool
	CarryForward     bool
	MaxCarryForward  int
}

type shiftTemplateSeed struct {
	Name         string
	Description  string
	StartTime    string
	EndTime      string
	BreakMinutes int
}

var defaultLeaveTypes = []leaveTypeSeed{
	{Name: "Annual Leave", Description: "Standard annual vacation leave", DaysPerYear: 25, IsPaid: true, RequiresApproval: true, CarryForward: true, MaxCarryForward: 5},
	{Name: "Sick Leave", Description: "Medical leave for illness", DaysPerYear: 10, IsPaid: true, RequiresApproval: false, CarryForward: false},
	{Name: "Personal Leave", Description: "Personal time off", DaysPerYear: 5, IsPaid: true, RequiresApproval: true, CarryForward: false},
	{Name: "Maternity Leave", Description: "Maternity leave", DaysPerYear: 90, IsPaid: true, RequiresApproval: true, CarryForward: false},
	{Name: "Paternity Leave", Description: "Paternity leave", DaysPerYear: 10, IsPaid: true, RequiresApproval: true, CarryForward: false},
}

var defaultShiftTemplates = []shiftTemplateSeed{
	{Name: "Standard Day Shift", Description: "Regular 9-5 workday", StartTime: "09:00", EndTime: "17:00", BreakMinutes: 60},
	{Name: "Morning Shift", Description: "Early morning shift", StartTime: "06:00", EndTime: "14:00", BreakMinutes: 60},
	{Name: "Evening Shift", Description: "Evening shift", StartTime: "14:00", EndTime: "22:00", BreakMinutes: 60},
	{Name: "Night Shift", Description: "Overnight shift", StartTime: "22:00", EndTime: "06:00", BreakMinutes: 60},
}

var defaultDepartments = []string{
	"Human Resources",
	"Information Technology",
	"Engineering",
	"Finance",
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureInstitution(ctx, pool, cfg.SeedInstitutionName); err != nil {
		return err
	}

	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool, roleIDs); err != nil {
		return err
	}

	if err := ensureAdminUser(ctx, pool, roleIDs[auth.RoleAdmin], cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}

	if err := ensureLeaveTypes(ctx, pool); err != nil {
		return err
	}

	if err := ensureShiftTemplates(ctx, pool); err != nil {
		return err
	}

	return ensureDepartments(ctx, pool)
}

func ensureInstitution(ctx context.Context, pool *pgxpool.Pool, name string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM institutions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := pool.Exec(ctx, "INSERT INTO institutions (name) VALUES ($1)", name)
	return err
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	roleIDs := map[string]string{}
	for roleName := range auth.RolePermissions {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&id)
		if err == nil {
			roleIDs[roleName] = id
			continue
		}

		err = pool.QueryRow(ctx, "INSERT INTO roles (name) VALUES ($1) RETURNING id", roleName).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool, roleIDs map[string]string) error {
	permMap := map[string]string{}
	rows, err := pool.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		permMap[key] = id
	}

	for roleName, perms := range auth.RolePermissions {
		roleID := roleIDs[roleName]
		for _, permKey := range perms {
			permID, ok := permMap[permKey]
			if !ok {
				return errors.New("permission not found: " + permKey)
			}
			_, err := pool.Exec(ctx, "INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", roleID, permID)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return pool.QueryRow(ctx, "INSERT INTO users (email, password_hash, role_id) VALUES ($1, $2, $3) RETURNING id", email, hash, roleID).Scan(&id)
}

func ensureLeaveTypes(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM leave_types").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, lt := range defaultLeaveTypes {
		_, err := pool.Exec(ctx, `
      INSERT INTO leave_types (name, description, days_per_year, is_paid, requires_approval, carry_forward_allowed, max_carry_forward, is_active)
      VALUES ($1,$2,$3,$4,$5,$6,$7,true)
    `, lt.Name, lt.Description, lt.DaysPerYear, lt.IsPaid, lt.RequiresApproval, lt.CarryForward, lt.MaxCarryForward)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureShiftTemplates(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM shift_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, st := range defaultShiftTemplates {
		_, err := pool.Exec(ctx, `
      INSERT INTO shift_templates (name, description, start_time, end_time, break_minutes, is_active)
      VALUES ($1,$2,$3,$4,$5,true)
    `, st.Name, st.Description, st.StartTime, st.EndTime, st.BreakMinutes)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureDepartments(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range defaultDepartments {
		_, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return err
		}
	}
	return nil
}
