package health

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
)

// Handler serves liveness/readiness probes and an overall health report.
type Handler struct {
	db      *sqlx.DB
	started time.Time
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db, started: time.Now()}
}

type dbCheck struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// Check handles GET /health.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	db := h.checkDatabase(r)
	status := "healthy"
	if db.Status != "up" {
		status = "unhealthy"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.started).Seconds(),
		"environment": env("APP_ENV", "development"),
		"checks":      map[string]any{"database": db},
	})
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// Ready handles GET /health/ready; 503 while the database is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if db := h.checkDatabase(r); db.Status != "up" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready", "checks": map[string]any{"database": db}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) checkDatabase(r *http.Request) dbCheck {
	check := dbCheck{Status: "up", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	var one int
	if err := h.db.GetContext(r.Context(), &one, "SELECT 1"); err != nil {
		check.Status = "down"
		check.Error = err.Error()
	}
	return check
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
