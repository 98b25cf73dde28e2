package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service   *leave.Service
	Employees *employee.Store
	Perms     middleware.PermissionStore
}

func NewHandler(service *leave.Service, employees *employee.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Employees: employees, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Put("/types/{typeID}", h.handleUpdateType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/holidays", h.handleListHolidays)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/holidays", h.handleCreateHoliday)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Delete("/holidays/{holidayID}", h.handleDeleteHoliday)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/balances/{employeeID}", h.handleBalances)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests", h.handleListRequests)
		r.With(middleware.RequirePermission(auth.PermLeaveRead, h.Perms)).Get("/requests/{requestID}", h.handleGetRequest)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite, h.Perms)).Post("/requests/{requestID}/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Perms)).Post("/carry-forward/run", h.handleRunCarryForward)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, leave.ErrTypeNotFound):
		api.Fail(w, http.StatusNotFound, "leave_type_not_found", "leave type not found", reqID)
	case errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "leave_request_not_found", "leave request not found", reqID)
	case errors.Is(err, leave.ErrTypeNameTaken):
		api.Fail(w, http.StatusConflict, "leave_type_name_taken", "leave type name already exists", reqID)
	case errors.Is(err, leave.ErrHolidayExists):
		api.Fail(w, http.StatusConflict, "holiday_exists", "holiday already registered for that date", reqID)
	case errors.Is(err, leave.ErrTypeInactive):
		api.Fail(w, http.StatusUnprocessableEntity, "leave_type_inactive", "leave type is inactive", reqID)
	case errors.Is(err, leave.ErrInsufficientBalance):
		api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", err.Error(), reqID)
	case errors.Is(err, leave.ErrBadTransition):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, leave.ErrDateOrder):
		api.Fail(w, http.StatusUnprocessableEntity, "date_order", "end date precedes start date", reqID)
	case errors.Is(err, leave.ErrNoWorkingDays):
		api.Fail(w, http.StatusUnprocessableEntity, "no_working_days", "span contains no working days", reqID)
	case errors.Is(err, leave.ErrReferenceNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "reference_not_found", "referenced entity does not exist", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_operation_failed", "operation failed", reqID)
	}
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("active") == "true"
	types, err := h.Service.Store.ListTypes(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, types, reqID)
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload leave.Type
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.DaysPerYear <= 0 {
		v.Add("daysPerYear", "must be positive")
	}
	if payload.MaxCarryForward < 0 {
		v.Add("maxCarryForward", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.CreateType(r.Context(), middleware.Actor(r), payload)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload leave.Type
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "typeID")

	if err := h.Service.UpdateType(r.Context(), middleware.Actor(r), payload); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			year = parsed
		}
	}
	holidays, err := h.Service.Store.ListHolidays(r.Context(), year)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, holidays, reqID)
}

func (h *Handler) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.AddHoliday(r.Context(), middleware.Actor(r), leave.Holiday{Date: date, Name: payload.Name})
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.RemoveHoliday(r.Context(), middleware.Actor(r), chi.URLParam(r, "holidayID")); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			year = parsed
		}
	}
	balances, err := h.Service.Balances(r.Context(), chi.URLParam(r, "employeeID"), year)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, balances, reqID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	filter := leave.RequestFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.Year = parsed
		}
	}
	requests, err := h.Service.Store.ListRequests(r.Context(), filter)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	request, err := h.Service.Store.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, request, reqID)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		EmployeeID  string `json:"employeeId"`
		LeaveTypeID string `json:"leaveTypeId"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Reason      string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	// Employees file for themselves unless they say otherwise.
	if payload.EmployeeID == "" {
		emp, err := h.Employees.GetByUser(r.Context(), user.UserID)
		if err != nil {
			h.respondError(w, reqID, err)
			return
		}
		payload.EmployeeID = emp.ID
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leaveTypeId is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Submit(r.Context(), middleware.Actor(r), leave.Request{
		EmployeeID:  payload.EmployeeID,
		LeaveTypeID: payload.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      payload.Reason,
	})
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := h.Service.Approve(r.Context(), middleware.Actor(r), chi.URLParam(r, "requestID"), user.UserID); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": leave.StatusApproved}, reqID)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	if err := h.Service.Reject(r.Context(), middleware.Actor(r), chi.URLParam(r, "requestID"), user.UserID); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": leave.StatusRejected}, reqID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Cancel(r.Context(), middleware.Actor(r), chi.URLParam(r, "requestID")); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": leave.StatusCancelled}, reqID)
}

func (h *Handler) handleRunCarryForward(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	fromYear := time.Now().UTC().Year() - 1
	if raw := r.URL.Query().Get("fromYear"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			fromYear = parsed
		}
	}

	seeded, err := h.Service.RunCarryForward(r.Context(), middleware.Actor(r), fromYear)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]any{"fromYear": fromYear, "seeded": seeded}, reqID)
}
