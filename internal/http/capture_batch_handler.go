package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"event-analytics/internal/enrichers"
	"event-analytics/internal/ingestors"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type captureBatchHandler struct {
	ingestionService ingestors.IngestionService
	batchTimeout     time.Duration
}

func NewCaptureBatchHandler(ingestionService ingestors.IngestionService, batchTimeout time.Duration) AppHttpHandler {
	return &captureBatchHandler{
		ingestionService: ingestionService,
		batchTimeout:     batchTimeout,
	}
}

// Handle processes POST /v1/batch requests. The response always carries the
// full per-item outcome list so clients can selectively resubmit failed
// items; only whole-batch failures surface as an error status.
func (h *captureBatchHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), h.batchTimeout)
	defer cancel()

	meta := enrichers.RequestMetadata{
		IP:        clientIP(r),
		UserAgent: userAgent(r),
	}

	result, err := h.ingestionService.IngestBatch(ctx, writeKey(r), origin(r), meta, r.Body)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(result)
}
