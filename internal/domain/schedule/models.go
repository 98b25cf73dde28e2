package schedule

import "time"

// ShiftTemplate is a reusable working-time pattern. Times are wall-clock
// "HH:MM" strings; a shift whose end is not after its start wraps midnight.
type ShiftTemplate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	BreakMinutes int       `json:"breakMinutes"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Schedule assigns one employee to one shift on one date. The pair
// (employee, date) is unique and enforced by the database.
type Schedule struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	ShiftTemplateID string    `json:"shiftTemplateId"`
	ShiftName       string    `json:"shiftName,omitempty"`
	Date            time.Time `json:"date"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CoverageDay summarizes staffing for one department on one date: the
// department's required headcount against who was scheduled and who
// actually showed up, with the scheduled-vs-required grade.
type CoverageDay struct {
	Date         time.Time `json:"date"`
	DepartmentID string    `json:"departmentId"`
	Department   string    `json:"department"`
	Required     int       `json:"required"`
	Scheduled    int       `json:"scheduled"`
	Present      int       `json:"present"`
	Status       string    `json:"status"`
}
