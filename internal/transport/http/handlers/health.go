package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/teamdesk/activity-service/internal/transport/http/response"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus := "ok"
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			dbStatus = "down"
		}
	}

	payload := map[string]string{
		"service":  "activity-service",
		"database": dbStatus,
	}
	if dbStatus != "ok" {
		response.JSON(w, http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Message: "degraded",
			Data:    payload,
		})
		return
	}
	response.Data(w, http.StatusOK, payload)
}
