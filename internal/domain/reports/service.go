package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/schedule"
	"hrms/internal/platform/querier"
)

type Service struct {
	ReportsDir string
	Employees  *employee.Store
	Schedules  *schedule.Store
	Attendance *attendance.Store
	Leave      *leave.Store
}

func NewService(db querier.Querier, reportsDir string) *Service {
	return &Service{
		ReportsDir: reportsDir,
		Employees:  employee.NewStore(db),
		Schedules:  schedule.NewStore(db),
		Attendance: attendance.NewStore(db),
		Leave:      leave.NewStore(db),
	}
}

// Coverage compares scheduled headcount with who actually showed up, per
// department per date.
func (s *Service) Coverage(ctx context.Context, from, to time.Time) ([]schedule.CoverageDay, error) {
	return s.Schedules.Coverage(ctx, from, to)
}

// CoverageCSV streams the coverage table for a period as CSV.
func (s *Service) CoverageCSV(ctx context.Context, w io.Writer, from, to time.Time) error {
	days, err := s.Schedules.Coverage(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "department", "required", "scheduled", "present", "status"}); err != nil {
		return err
	}
	for _, day := range days {
		record := []string{
			day.Date.Format(time.DateOnly),
			day.Department,
			strconv.Itoa(day.Required),
			strconv.Itoa(day.Scheduled),
			strconv.Itoa(day.Present),
			day.Status,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EmployeeSummaryPDF renders one employee's attendance and leave standing
// for a period into a PDF under ReportsDir and returns the file path.
func (s *Service) EmployeeSummaryPDF(ctx context.Context, employeeID string, from, to time.Time) (string, error) {
	emp, err := s.Employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return "", err
	}
	summary, err := s.Attendance.Summarize(ctx, employeeID, from, to)
	if err != nil {
		return "", err
	}
	balances, err := s.Leave.Balances(ctx, employeeID, from.Year())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.ReportsDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.ReportsDir, fmt.Sprintf("summary-%s-%s.pdf", emp.EmployeeNo, from.Format("2006-01")))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", emp.FirstName, emp.LastName, emp.EmployeeNo))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Attendance")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Days recorded: %d", summary.Days))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Present: %d  Late: %d  Half days: %d  Absent: %d",
		summary.Present, summary.Late, summary.HalfDays, summary.Absences))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", summary.TotalHours))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Leave Balances")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	for _, bal := range balances {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %d of %d used, %d remaining",
			bal.TypeName, bal.UsedDays, bal.DaysPerYear+bal.CarriedForward, bal.Remaining))
		pdf.Ln(7)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// CoveragePDF renders the coverage table for a period.
func (s *Service) CoveragePDF(ctx context.Context, from, to time.Time) (string, error) {
	days, err := s.Schedules.Coverage(ctx, from, to)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.ReportsDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.ReportsDir, fmt.Sprintf("coverage-%s.pdf", from.Format("2006-01-02")))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Shift Coverage")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", from.Format("2006-01-02"), to.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(28, 8, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(52, 8, "Department", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Required", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Scheduled", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Present", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, day := range days {
		pdf.CellFormat(28, 8, day.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(52, 8, day.Department, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", day.Required), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", day.Scheduled), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", day.Present), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, day.Status, "1", 1, "", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
