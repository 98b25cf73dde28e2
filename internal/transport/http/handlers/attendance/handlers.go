package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service   *attendance.Service
	Employees *employee.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *attendance.Service, employees *employee.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/clock-in", h.handleClockIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/clock-out", h.handleClockOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Put("/corrections", h.handleCorrect)
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/summary/{employeeID}", h.handleSummary)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, attendance.ErrRecordNotFound):
		api.Fail(w, http.StatusNotFound, "attendance_not_found", "attendance record not found", reqID)
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		api.Fail(w, http.StatusConflict, "already_clocked_in", "employee already clocked in on that date", reqID)
	case errors.Is(err, attendance.ErrClockOrder):
		api.Fail(w, http.StatusUnprocessableEntity, "clock_order", "clock-out precedes clock-in", reqID)
	case errors.Is(err, attendance.ErrBadStatus):
		api.Fail(w, http.StatusBadRequest, "unknown_status", "unknown attendance status", reqID)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	case errors.Is(err, attendance.ErrReferenceNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "reference_not_found", "referenced entity does not exist", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attendance_operation_failed", "operation failed", reqID)
	}
}

// selfEmployee resolves the calling user's employee record. Clocking happens
// for yourself, not on behalf of others.
func (h *Handler) selfEmployee(w http.ResponseWriter, r *http.Request, reqID string) (string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return "", false
	}
	emp, err := h.Employees.GetByUser(r.Context(), user.UserID)
	if err != nil {
		h.respondError(w, reqID, err)
		return "", false
	}
	return emp.ID, true
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := h.selfEmployee(w, r, reqID)
	if !ok {
		return
	}

	id, err := h.Service.ClockIn(r.Context(), middleware.Actor(r), employeeID, time.Now().UTC())
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := h.selfEmployee(w, r, reqID)
	if !ok {
		return
	}

	if err := h.Service.ClockOut(r.Context(), middleware.Actor(r), employeeID, time.Now().UTC()); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "clocked_out"}, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	records, err := h.Service.Store.List(r.Context(), r.URL.Query().Get("employeeId"), from, to)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, records, reqID)
}

func (h *Handler) handleCorrect(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		EmployeeID string     `json:"employeeId"`
		Date       string     `json:"date"`
		ClockIn    *time.Time `json:"clockIn"`
		ClockOut   *time.Time `json:"clockOut"`
		Status     string     `json:"status"`
		Notes      string     `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("status", payload.Status, "status is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	err := h.Service.Correct(r.Context(), middleware.Actor(r), attendance.Record{
		EmployeeID: payload.EmployeeID,
		Date:       date,
		ClockIn:    payload.ClockIn,
		ClockOut:   payload.ClockOut,
		Status:     payload.Status,
		Notes:      payload.Notes,
	})
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "corrected"}, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	summary, err := h.Service.Store.Summarize(r.Context(), chi.URLParam(r, "employeeID"), from, to)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, summary, reqID)
}
