package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/org"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Org     *org.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *employee.Service, orgSvc *org.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Org: orgSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeeRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeeWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeeRead, h.Perms)).Get("/org-chart", h.handleOrgChart)
		r.With(middleware.RequirePermission(auth.PermEmployeeRead, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeeWrite, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeeWrite, h.Perms)).Post("/{employeeID}/deactivate", h.handleDeactivate)
		r.With(middleware.RequirePermission(auth.PermEmployeeRead, h.Perms)).Get("/{employeeID}/manager-chain", h.handleManagerChain)
		r.With(middleware.RequirePermission(auth.PermEmployeeRead, h.Perms)).Get("/{employeeID}/assignments", h.handleListAssignments)
		r.With(middleware.RequirePermission(auth.PermEmployeeWrite, h.Perms)).Post("/{employeeID}/assignments", h.handleAssignDepartment)
	})
}

func (h *Handler) respondError(w http.ResponseWriter, reqID string, err error) {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
	case errors.Is(err, employee.ErrEmployeeNoTaken):
		api.Fail(w, http.StatusConflict, "employee_no_taken", "employee number already exists", reqID)
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
	case errors.Is(err, auth.ErrRoleUnknown):
		api.Fail(w, http.StatusBadRequest, "unknown_role", "unknown role", reqID)
	case errors.Is(err, employee.ErrManagerCycle):
		api.Fail(w, http.StatusUnprocessableEntity, "manager_cycle", "manager chain must stay acyclic", reqID)
	case errors.Is(err, employee.ErrReferenceNotFound), errors.Is(err, org.ErrReferenceNotFound):
		api.Fail(w, http.StatusUnprocessableEntity, "reference_not_found", "referenced entity does not exist", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "employee_operation_failed", "operation failed", reqID)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	filter := employee.ListFilter{
		DepartmentID: r.URL.Query().Get("departmentId"),
		Status:       r.URL.Query().Get("status"),
		Search:       r.URL.Query().Get("search"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	employees, err := h.Service.Store.ListEmployees(r.Context(), filter)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, emp, reqID)
}

type createPayload struct {
	employee.Employee
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Role == "" {
		payload.Role = auth.RoleEmployee
	}

	v := shared.NewValidator()
	v.Required("employeeNo", payload.EmployeeNo, "employeeNo is required")
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleManager, auth.RoleEmployee}, "unknown role")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Service.Create(r.Context(), middleware.Actor(r), employee.CreateInput{
		Employee: payload.Employee,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.ID = chi.URLParam(r, "employeeID")

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.Update(r.Context(), middleware.Actor(r), payload); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.Deactivate(r.Context(), middleware.Actor(r), chi.URLParam(r, "employeeID")); err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}

func (h *Handler) handleOrgChart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	chart, err := h.Service.Store.OrgChart(r.Context())
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, chart, reqID)
}

func (h *Handler) handleManagerChain(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	chain, err := h.Service.ReportingLine(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, chain, reqID)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	assignments, err := h.Org.Store.ListAssignments(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Success(w, assignments, reqID)
}

func (h *Handler) handleAssignDepartment(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload org.DepartmentAssignment
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.EmployeeID = chi.URLParam(r, "employeeID")

	v := shared.NewValidator()
	v.Required("departmentId", payload.DepartmentID, "departmentId is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Org.AssignDepartment(r.Context(), middleware.Actor(r), payload)
	if err != nil {
		h.respondError(w, reqID, err)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}
