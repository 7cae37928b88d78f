package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger verifies the durable store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) AppHttpHandler {
	return &healthHandler{store: store}
}

// Handle serves GET /healthz: liveness plus a bounded store ping.
func (h *healthHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	if err := h.store.PingContext(ctx); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	return json.NewEncoder(w).Encode(map[string]string{"status": status})
}
