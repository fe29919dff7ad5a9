package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"expense-tracker-api/internal/http/respond"
)

// Pinger checks connectivity to the storage engine.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database status. It requires no auth.
type HealthHandler struct {
	db        Pinger
	startedAt time.Time
}

// NewHealthHandler creates the health and info endpoints handler.
func NewHealthHandler(db Pinger, startedAt time.Time) *HealthHandler {
	return &HealthHandler{db: db, startedAt: startedAt}
}

// Register wires the handler into a router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/", h.handleInfo)
}

func (h *HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	state := "ok"
	database := "connected"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		state = "degraded"
		database = "disconnected"
	}

	respond.JSON(w, status, map[string]string{
		"status":    state,
		"database":  database,
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		database = "disconnected"
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"message":  "Personal Expense Tracker API",
		"version":  "1.0.0",
		"database": database,
	})
}
