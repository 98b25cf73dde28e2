package schedulehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/schedule"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *schedule.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermScheduleRead, h.Perms)).Get("/", h.handleListTemplates)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Post("/", h.handleCreateTemplate)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Put("/{templateID}", h.handleUpdateTemplate)
	})
	r.Route("/schedules", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermScheduleRead, h.Perms)).Get("/", h.handleListSchedules)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Post("/", h.handleAssign)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Post("/range", h.handleAssignRange)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Delete("/{scheduleID}", h.handleUnassign)
		r.With(middleware.RequirePermission(auth.PermScheduleRead, h.Perms)).Get("/coverage", h.handleCoverage)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, schedule.ErrTemplateNotFound):
		api.Fail(w, http.StatusNotFound, "template_not_found", "shift template not found", reqID)
	case errors.Is(err, schedule.ErrScheduleNotFound):
		api.Fail(w, http.StatusNotFound, "schedule_not_found", "schedule not found", reqID)
	case errors.Is(err, schedule.ErrTemplateNameTaken):
		api.Fail(w, http.StatusConflict, "template_name_taken", "shift template name already exists", reqID)
	case errors.Is(err, schedule.ErrScheduleConflict):
		api.Fail(w, http.StatusConflict, "schedule_conflict", "employee already scheduled on that date", reqID)
	case errors.Is(err, schedule.ErrTemplateIdle):
		api.Fail(w, http.StatusUnprocessableEntity, "template_inactive", "shift template is inactive", reqID)
	case errors.Is(err, schedule.ErrBadClock), errors.Is(err, schedule.ErrBreakTooLong), errors.Is(err, schedule.ErrEmptyDateSpan):
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_shift", err.Error(), reqID)
	case errors.Is(err, schedule.ErrReferenceNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "reference_not_found", "referenced entity does not exist", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "schedule_operation_failed", "operation failed", reqID)
	}
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	activeOnly := r.URL.Query().Get("active") == "true"
	templates, err := h.Service.Store.ListTemplates(r.Context(), activeOnly)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, templates, reqID)
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload schedule.ShiftTemplate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("startTime", payload.StartTime, "startTime is required")
	v.Required("endTime", payload.EndTime, "endTime is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.CreateTemplate(r.Context(), middleware.Actor(r), payload)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload schedule.ShiftTemplate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "templateID")

	if err := h.Service.UpdateTemplate(r.Context(), middleware.Actor(r), payload); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

// dateRange parses from/to query params, defaulting to the current week.
func dateRange(r *http.Request, v *shared.Validator) (time.Time, time.Time) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" && toRaw == "" {
		now := time.Now().UTC().Truncate(24 * time.Hour)
		return now, now.AddDate(0, 0, 6)
	}
	from, _ := v.Date("from", fromRaw)
	to, _ := v.Date("to", toRaw)
	v.DateOrder("from", from, "to", to)
	return from, to
}

func (h *Handler) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, to := dateRange(r, v)
	if v.Reject(w, reqID) {
		return
	}

	schedules, err := h.Service.Store.ListSchedules(r.Context(), r.URL.Query().Get("employeeId"), from, to)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, schedules, reqID)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		EmployeeID      string `json:"employeeId"`
		ShiftTemplateID string `json:"shiftTemplateId"`
		Date            string `json:"date"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("shiftTemplateId", payload.ShiftTemplateID, "shiftTemplateId is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Assign(r.Context(), middleware.Actor(r), schedule.Schedule{
		EmployeeID:      payload.EmployeeID,
		ShiftTemplateID: payload.ShiftTemplateID,
		Date:            date,
		Notes:           payload.Notes,
	})
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleAssignRange(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		EmployeeID      string `json:"employeeId"`
		ShiftTemplateID string `json:"shiftTemplateId"`
		From            string `json:"from"`
		To              string `json:"to"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("shiftTemplateId", payload.ShiftTemplateID, "shiftTemplateId is required")
	from, _ := v.Date("from", payload.From)
	to, _ := v.Date("to", payload.To)
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	ids, err := h.Service.AssignRange(r.Context(), middleware.Actor(r), payload.EmployeeID, payload.ShiftTemplateID, from, to, payload.Notes)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]any{"ids": ids, "created": len(ids)}, reqID)
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Unassign(r.Context(), middleware.Actor(r), chi.URLParam(r, "scheduleID")); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "unassigned"}, reqID)
}

func (h *Handler) handleCoverage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, to := dateRange(r, v)
	if v.Reject(w, reqID) {
		return
	}

	coverage, err := h.Service.Store.Coverage(r.Context(), from, to)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, coverage, reqID)
}
