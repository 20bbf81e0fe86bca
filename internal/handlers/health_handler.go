package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/pkg/httputil"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HandleHealth handles GET /health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("WARN Health: store ping failed: %v", err)
		httputil.RespondJSON(w, http.StatusServiceUnavailable, models.HealthResponse{OK: false, Error: "store unreachable"})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{OK: true})
}
