package employee

import "time"

// Employee composes a User identity reference with employment attributes.
// Address, Contact and Certifications are embedded documents owned by the
// employee row; they have no independent identity or lifecycle.
type Employee struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	EmployeeNo     string          `json:"employeeNo"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	HireDate       *time.Time      `json:"hireDate,omitempty"`
	Salary         *float64        `json:"salary,omitempty"`
	PositionID     string          `json:"positionId"`
	ManagerID      string          `json:"managerId"`
	Address        Address         `json:"address"`
	Contact        Contact         `json:"contact"`
	Certifications []Certification `json:"certifications,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type Contact struct {
	Phone          string `json:"phone,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	EmergencyName  string `json:"emergencyName,omitempty"`
	EmergencyPhone string `json:"emergencyPhone,omitempty"`
}

type Certification struct {
	Name      string     `json:"name"`
	Issuer    string     `json:"issuer,omitempty"`
	IssuedAt  *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// OrgChartNode is one employee in the reporting tree.
type OrgChartNode struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	EmployeeNo string          `json:"employeeNo"`
	Reports    []*OrgChartNode `json:"reports,omitempty"`
}
