package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Handler exposes HTTP endpoints for user authentication.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (req RegisterRequest) validate() string {
	if req.Email == "" {
		return "email is required"
	}
	if len(req.FirstName) < 2 || len(req.LastName) < 2 {
		return "firstName and lastName must be at least 2 characters"
	}
	if len(req.Password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := h.svc.Register(r.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.writeError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.logger.Errorw("register failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			h.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Errorw("login failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Me handles GET /auth/me behind the bearer middleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	u, err := h.svc.CurrentUser(r.Context(), claims)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// CreateUserRequest is the admin user-creation payload. Role defaults to
// "user" when omitted.
type CreateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (req CreateUserRequest) validate() string {
	if msg := (RegisterRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}).validate(); msg != "" {
		return msg
	}
	return validateRole(req.Role)
}

func validateRole(role string) string {
	if role != "" && role != "admin" && role != "user" {
		return "role must be admin or user"
	}
	return ""
}

// CreateUser handles POST /users (admin only).
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req.Email, req.FirstName, req.LastName, req.Password, req.Role)
	if err != nil {
		h.respondUserError(w, err, "create user")
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /users (admin only).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.respondUserError(w, err, "list users")
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondUserError(w, err, "get user")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PATCH /users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := validateUserUpdate(in); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.respondUserError(w, err, "update user")
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func validateUserUpdate(in UpdateUserInput) string {
	if in.Email != nil && *in.Email == "" {
		return "email must not be empty"
	}
	if in.FirstName != nil && len(*in.FirstName) < 2 {
		return "firstName must be at least 2 characters"
	}
	if in.LastName != nil && len(*in.LastName) < 2 {
		return "lastName must be at least 2 characters"
	}
	if in.Password != nil && len(*in.Password) < 6 {
		return "password must be at least 6 characters"
	}
	if in.Role != nil {
		if msg := validateRole(*in.Role); msg != "" {
			return msg
		}
		if *in.Role == "" {
			return "role must be admin or user"
		}
	}
	return ""
}

// DeleteUser handles DELETE /users/{id} (admin only).
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		h.respondUserError(w, err, "delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondUserError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrEmailTaken):
		h.writeError(w, http.StatusConflict, "user with this email already exists")
	default:
		h.logger.Errorw(op+" failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
