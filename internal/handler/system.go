package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/homebase/internal/respond"
)

// Version is reported by the API index.
const Version = "1.0.0"

// Pinger checks that the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type SystemHandler struct {
	db     Pinger
	logger *slog.Logger
	now    func() time.Time
}

func NewSystemHandler(db Pinger, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger, now: time.Now}
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "ok",
		Message:   "HomeBase API is running",
		Database:  "connected",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check: database unreachable", "error", err)
		resp.Status = "error"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to HomeBase API",
		"version": Version,
		"endpoints": map[string]string{
			"health":     "/health",
			"register":   "POST /api/auth/register",
			"login":      "POST /api/auth/login",
			"me":         "GET /api/auth/me",
			"categories": "GET /api/categories",
		},
	})
}

// NotFound answers every unmatched route.
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "Not Found", "Cannot "+r.Method+" "+r.URL.Path)
}
