package employee

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/staffdeck/directory-api/internal/employee/entity"
)

// Handler exposes HTTP endpoints for the employee directory.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /employees with filters and pagination.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.Filter{
		Department: q.Get("department"),
		Title:      q.Get("title"),
		Location:   q.Get("location"),
		Search:     q.Get("search"),
	}

	var err error
	if f.Page, err = intParam(q.Get("page")); err != nil {
		h.writeError(w, http.StatusBadRequest, "page must be a number")
		return
	}
	if f.Limit, err = intParam(q.Get("limit")); err != nil {
		h.writeError(w, http.StatusBadRequest, "limit must be a number")
		return
	}

	result, err := h.svc.FindMany(r.Context(), f)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Create handles POST /employees.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := in.Validate(h.svc.AllowedDepartments()); err != nil {
		h.respondError(w, err)
		return
	}

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /employees/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.FindOne(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

// Update handles PATCH /employees/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := in.Validate(h.svc.AllowedDepartments()); err != nil {
		h.respondError(w, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /employees/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Departments handles GET /employees/departments.
func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	h.facet(w, r, h.svc.Departments)
}

// Titles handles GET /employees/titles.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	h.facet(w, r, h.svc.Titles)
}

// Locations handles GET /employees/locations.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	h.facet(w, r, h.svc.Locations)
}

// Stats handles GET /employees/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Stats(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) facet(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]string, error)) {
	values, err := fetch(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, values)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps service failures onto HTTP statuses. One convention for
// every operation: not-found is 404, a duplicate email is 409, validation is
// 400, anything else is a 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		h.writeError(w, http.StatusNotFound, "employee not found")
	case errors.Is(err, ErrDuplicateEmail):
		h.writeError(w, http.StatusConflict, "employee with this email already exists")
	case errors.As(err, &ve):
		h.writeError(w, http.StatusBadRequest, ve.Error())
	default:
		h.logger.Errorw("employee request failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
