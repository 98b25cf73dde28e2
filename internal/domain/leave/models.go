package leave

import "time"

// Type is a category of leave with an annual entitlement. An inactive type
// cannot back new requests; requests referencing one are a configuration
// fault, not a zero balance.
type Type struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	DaysPerYear         int       `json:"daysPerYear"`
	IsPaid              bool      `json:"isPaid"`
	RequiresApproval    bool      `json:"requiresApproval"`
	CarryForwardAllowed bool      `json:"carryForwardAllowed"`
	MaxCarryForward     int       `json:"maxCarryForward"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Request is one employee's application for a span of leave days.
type Request struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	LeaveTypeID string     `json:"leaveTypeId"`
	TypeName    string     `json:"typeName,omitempty"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Days        int        `json:"days"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	ApproverID  string     `json:"approverId,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Balance tracks one employee's consumption of one leave type in one year.
// UsedDays counts approved days only; pending requests do not consume.
type Balance struct {
	EmployeeID     string `json:"employeeId"`
	LeaveTypeID    string `json:"leaveTypeId"`
	Year           int    `json:"year"`
	CarriedForward int    `json:"carriedForward"`
	UsedDays       int    `json:"usedDays"`
}

// BalanceView is a balance joined with its type for presentation.
type BalanceView struct {
	Balance
	TypeName    string `json:"typeName"`
	DaysPerYear int    `json:"daysPerYear"`
	Remaining   int    `json:"remaining"`
}

// Holiday is a non-working date excluded from leave day counts.
type Holiday struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}
