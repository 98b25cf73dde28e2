package org

import "time"

type Institution struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Department carries the staffing target the coverage report grades
// scheduled headcount against.
type Department struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ParentID          string    `json:"parentId"`
	ManagerID         string    `json:"managerId"`
	RequiredHeadcount int       `json:"requiredHeadcount"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

type Position struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	DepartmentID string    `json:"departmentId"`
	SalaryMin    float64   `json:"salaryMin"`
	SalaryMax    float64   `json:"salaryMax"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DepartmentAssignment is a time-bounded employee/department membership.
// A nil EndDate means the assignment is currently active; at most one active
// primary assignment exists per employee.
type DepartmentAssignment struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	DepartmentID string     `json:"departmentId"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsPrimary    bool       `json:"isPrimary"`
	CreatedAt    time.Time  `json:"createdAt"`
}
