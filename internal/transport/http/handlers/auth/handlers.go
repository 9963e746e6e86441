package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/auth"
	"personnel/internal/platform/logging"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRoutes mounts the public login route. Refresh and me sit behind
// the auth middleware and are registered by RegisterProtectedRoutes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/refresh", h.HandleRefresh)
	r.Get("/auth/me", h.HandleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("username", payload.Username)
	v.Required("password", payload.Password)
	if v.Reject(w, reqID) {
		return
	}

	token, err := h.Service.Login(r.Context(), strings.TrimSpace(payload.Username), payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logging.FromContext(r.Context()).Info("login rejected", "ip", shared.ClientIP(r))
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("token issue failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": h.Service.Username, "role": auth.RoleHR},
	}, reqID)
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok || h.Service.Secret == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Service.Secret, auth.Claims{UserID: user.UserID, RoleName: user.RoleName}, h.Service.TTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}
	api.Success(w, map[string]any{"token": token}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	api.Success(w, map[string]any{
		"id":          user.UserID,
		"role":        user.RoleName,
		"permissions": auth.RolePermissions[user.RoleName],
	}, reqID)
}
