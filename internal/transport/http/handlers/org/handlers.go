package orghandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/org"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *org.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *org.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/institution", h.handleGetInstitution)
	r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/institution", h.handleUpdateInstitution)
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/{departmentID}", h.handleGetDepartment)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Put("/{departmentID}", h.handleUpdateDepartment)
	})
	r.Route("/positions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOrgRead, h.Perms)).Get("/", h.handleListPositions)
		r.With(middleware.RequirePermission(auth.PermOrgWrite, h.Perms)).Post("/", h.handleCreatePosition)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, org.ErrInstitutionNotFound):
		api.Fail(w, http.StatusNotFound, "institution_not_found", "institution not configured", reqID)
	case errors.Is(err, org.ErrDepartmentNotFound):
		api.Fail(w, http.StatusNotFound, "department_not_found", "department not found", reqID)
	case errors.Is(err, org.ErrDepartmentNameTaken):
		api.Fail(w, http.StatusConflict, "department_name_taken", "department name already exists", reqID)
	case errors.Is(err, org.ErrHierarchyCycle):
		api.Fail(w, http.StatusUnprocessableEntity, "hierarchy_cycle", "department hierarchy must stay acyclic", reqID)
	case errors.Is(err, org.ErrSalaryRange):
		api.Fail(w, http.StatusUnprocessableEntity, "salary_range_invalid", "salary range is invalid", reqID)
	case errors.Is(err, org.ErrHeadcountNegative):
		api.Fail(w, http.StatusUnprocessableEntity, "headcount_invalid", "required headcount cannot be negative", reqID)
	case errors.Is(err, org.ErrReferenceNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "reference_not_found", "referenced entity does not exist", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "org_operation_failed", "operation failed", reqID)
	}
}

func (h *Handler) handleGetInstitution(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	inst, err := h.Service.Store.GetInstitution(r.Context())
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, inst, reqID)
}

func (h *Handler) handleUpdateInstitution(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload org.Institution
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.UpdateInstitution(r.Context(), middleware.Actor(r), payload); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	departments, err := h.Service.Store.ListDepartments(r.Context())
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, departments, reqID)
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	dept, err := h.Service.Store.GetDepartment(r.Context(), chi.URLParam(r, "departmentID"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, dept, reqID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload org.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.CreateDepartment(r.Context(), middleware.Actor(r), payload)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload org.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "departmentID")

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.UpdateDepartment(r.Context(), middleware.Actor(r), payload); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	positions, err := h.Service.Store.ListPositions(r.Context(), r.URL.Query().Get("departmentId"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, positions, reqID)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload org.Position
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("departmentId", payload.DepartmentID, "departmentId is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.CreatePosition(r.Context(), middleware.Actor(r), payload)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}
