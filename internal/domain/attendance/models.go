package attendance

import "time"

// Record is one employee's attendance for one date. The pair (employee,
// date) is unique and enforced by the database.
type Record struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Date        time.Time  `json:"date"`
	ClockIn     *time.Time `json:"clockIn,omitempty"`
	ClockOut    *time.Time `json:"clockOut,omitempty"`
	Status      string     `json:"status"`
	HoursWorked float64    `json:"hoursWorked"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
	StatusAbsent  = "absent"
)

// Summary aggregates one employee's attendance over a period.
type Summary struct {
	EmployeeID string  `json:"employeeId"`
	Days       int     `json:"days"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	HalfDays   int     `json:"halfDays"`
	Absences   int     `json:"absences"`
	TotalHours float64 `json:"totalHours"`
}
