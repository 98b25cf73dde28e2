package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *auth.Store
	Cfg   config.Config
}

func NewHandler(store *auth.Store, cfg config.Config) *Handler {
	return &Handler{Store: store, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUserManage, h.Store)).Get("/", h.handleListUsers)
		r.With(middleware.RequirePermission(auth.PermUserManage, h.Store)).Post("/", h.handleCreateUser)
		r.With(middleware.RequirePermission(auth.PermUserManage, h.Store)).Post("/{userID}/deactivate", h.handleDeactivateUser)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, reqID) {
		return
	}

	claims, err := h.Store.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWTSecret, claims, h.Cfg.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", reqID)
		return
	}
	api.Success(w, map[string]any{"token": token, "role": claims.RoleName}, reqID)
}

// Tokens are stateless; logout exists so clients have a uniform endpoint to
// call when discarding a session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	api.Success(w, map[string]string{"status": "logged_out"}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	record, err := h.Store.GetUser(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_lookup_failed", "failed to load user", reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_failed", "failed to list users", reqID)
		return
	}
	api.Success(w, users, reqID)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleManager, auth.RoleEmployee}, "unknown role")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Store.CreateUser(r.Context(), payload.Email, payload.Password, payload.Role)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
		return
	case errors.Is(err, auth.ErrRoleUnknown):
		api.Fail(w, http.StatusBadRequest, "unknown_role", "unknown role", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	userID := chi.URLParam(r, "userID")

	err := h.Store.Deactivate(r.Context(), userID)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "user_deactivate_failed", "failed to deactivate user", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, reqID)
}
