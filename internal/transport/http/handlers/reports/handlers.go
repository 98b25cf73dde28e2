package reportshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/reports"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/coverage", h.handleCoverage)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/coverage/csv", h.handleCoverageCSV)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/coverage/pdf", h.handleCoveragePDF)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/employees/{employeeID}/summary/pdf", h.handleEmployeeSummaryPDF)
	})
}

func (h *Handler) handleCoverage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	coverage, err := h.Service.Coverage(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "coverage_failed", "failed to build coverage report", reqID)
		return
	}
	api.Success(w, coverage, reqID)
}

func (h *Handler) handleCoverageCSV(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="coverage.csv"`)
	if err := h.Service.CoverageCSV(r.Context(), w, from, to); err != nil {
		api.Fail(w, http.StatusInternalServerError, "coverage_csv_failed", "failed to export coverage report", reqID)
		return
	}
}

func (h *Handler) handleCoveragePDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	path, err := h.Service.CoveragePDF(r.Context(), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "coverage_pdf_failed", "failed to render coverage report", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func (h *Handler) handleEmployeeSummaryPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	path, err := h.Service.EmployeeSummaryPDF(r.Context(), chi.URLParam(r, "employeeID"), from, to)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_pdf_failed", "failed to render employee summary", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
