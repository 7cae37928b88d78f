package ingestors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"event-analytics/internal/enrichers"
	"event-analytics/internal/identities"
	"event-analytics/internal/models"
	"event-analytics/internal/normalizers"
	"event-analytics/internal/sessions"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/stores"
)

const maxBatchBytes = 2 * 1024 * 1024

// IngestionService runs the capture pipeline for one batch: resolve the
// project, normalize items, then per event resolve identity, assign the
// session, enrich, and write. Items are independent: one bad item never
// aborts an otherwise-healthy batch.
//
//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// IngestBatch processes one batch submission and returns per-item
	// outcomes. Returned errors are whole-batch failures only (bad write
	// key, malformed envelope, disallowed origin).
	IngestBatch(ctx context.Context, writeKey, origin string, meta enrichers.RequestMetadata, r io.Reader) (*models.BatchResult, error)
}

type ingestionService struct {
	projectStore     stores.ProjectStore
	normalizer       normalizers.Normalizer
	identityResolver identities.IdentityResolver
	sessionAssigner  sessions.SessionAssigner
	enricher         enrichers.Enricher
	eventStore       stores.EventStore

	maxBatchSize int
	now          func() time.Time
}

func NewIngestionService(
	projectStore stores.ProjectStore,
	normalizer normalizers.Normalizer,
	identityResolver identities.IdentityResolver,
	sessionAssigner sessions.SessionAssigner,
	enricher enrichers.Enricher,
	eventStore stores.EventStore,
	maxBatchSize int,
) IngestionService {
	return &ingestionService{
		projectStore:     projectStore,
		normalizer:       normalizer,
		identityResolver: identityResolver,
		sessionAssigner:  sessionAssigner,
		enricher:         enricher,
		eventStore:       eventStore,
		maxBatchSize:     maxBatchSize,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// normalizedItem pairs a normalized event with its position in the
// submitted batch, so outcomes can be reported against the client's indexes
// after sorting.
type normalizedItem struct {
	index int
	event *models.NormalizedEvent
}

func (s *ingestionService) IngestBatch(ctx context.Context, writeKey, origin string, meta enrichers.RequestMetadata, r io.Reader) (*models.BatchResult, error) {
	logger := loggers.Ctx(ctx)

	project, err := s.resolveProject(ctx, writeKey, origin)
	if err != nil {
		return nil, err
	}

	envelope, err := s.decodeEnvelope(r)
	if err != nil {
		return nil, err
	}

	receivedAt := s.now()
	skew := s.normalizer.ClockSkew(envelope.SentAt, receivedAt)

	outcomes := make([]models.ItemOutcome, len(envelope.Batch))
	accepted := make([]normalizedItem, 0, len(envelope.Batch))

	for i, item := range envelope.Batch {
		event, err := s.normalizer.Normalize(item, skew, receivedAt)
		if err != nil {
			outcomes[i] = models.ItemOutcome{
				Index:  i,
				Status: models.StatusRejected,
				Reason: err.Error(),
			}
			continue
		}
		accepted = append(accepted, normalizedItem{index: i, event: event})
	}

	// Session mutations must apply in event-timestamp order per visitor;
	// sorting the whole batch keeps reordered submissions from opening
	// spurious short sessions.
	sort.SliceStable(accepted, func(a, b int) bool {
		return accepted[a].event.Timestamp.Before(accepted[b].event.Timestamp)
	})

	for i, item := range accepted {
		if ctx.Err() != nil {
			// Deadline hit mid-batch: already-committed items stay
			// committed; everything not yet written is retryable.
			s.failRemaining(outcomes, accepted[i:])
			break
		}
		outcomes[item.index] = s.processEvent(ctx, project, item, meta, receivedAt)
	}

	result := &models.BatchResult{Outcomes: outcomes}
	acceptedCount, duplicates, rejected, failed := result.Counts()
	metricBatchesIngestedTotal.Inc()
	metricBatchItemsTotal.WithLabelValues(string(models.StatusAccepted)).Add(float64(acceptedCount))
	metricBatchItemsTotal.WithLabelValues(string(models.StatusDuplicate)).Add(float64(duplicates))
	metricBatchItemsTotal.WithLabelValues(string(models.StatusRejected)).Add(float64(rejected))
	metricBatchItemsTotal.WithLabelValues(string(models.StatusFailed)).Add(float64(failed))

	logger.Debug().
		Str(loggers.FieldTenantID, project.TenantID).
		Str(loggers.FieldProjectID, project.ProjectID).
		Int(loggers.FieldBatchSize, len(envelope.Batch)).
		Int("accepted", acceptedCount).
		Int("duplicates", duplicates).
		Int("rejected", rejected).
		Int("failed", failed).
		Msg("batch processed")

	return result, nil
}

func (s *ingestionService) resolveProject(ctx context.Context, writeKey, origin string) (*models.Project, error) {
	writeKey = strings.TrimSpace(writeKey)
	if writeKey == "" {
		return nil, errUnknownWriteKey(nil)
	}

	project, err := s.projectStore.GetByWriteKey(ctx, writeKey)
	if err != nil {
		if errors.Is(err, stores.ErrProjectNotFound) {
			return nil, errUnknownWriteKey(err)
		}
		return nil, errInternalProjectStoreFailed(err)
	}

	if origin != "" && !project.OriginAllowed(origin) {
		return nil, errOriginNotAllowed(origin)
	}
	return project, nil
}

func (s *ingestionService) decodeEnvelope(r io.Reader) (*models.EventBatch, error) {
	if r == nil {
		return nil, errValidationFailed("empty request body", nil)
	}

	buf, err := io.ReadAll(io.LimitReader(r, maxBatchBytes+1))
	if err != nil {
		return nil, errValidationFailed("failed to read request body", err)
	}
	if len(buf) > maxBatchBytes {
		return nil, errBatchTooLarge("batch too large: must be <= 2MB")
	}

	var envelope models.EventBatch
	if err := json.Unmarshal(buf, &envelope); err != nil {
		return nil, errValidationFailed("invalid json", err)
	}

	if len(envelope.Batch) == 0 {
		return nil, errValidationFailed("batch cannot be empty", nil)
	}
	if len(envelope.Batch) > s.maxBatchSize {
		return nil, errBatchTooLarge("batch exceeds maximum item count")
	}
	return &envelope, nil
}

// processEvent runs one normalized event through identity resolution,
// session assignment, enrichment, and the atomic write.
func (s *ingestionService) processEvent(ctx context.Context, project *models.Project, item normalizedItem, meta enrichers.RequestMetadata, receivedAt time.Time) models.ItemOutcome {
	event := item.event

	identity, err := s.identityResolver.Resolve(ctx, project.TenantID, event)
	if err != nil {
		return s.failedOutcome(ctx, item, err)
	}

	derived := s.enricher.Derive(ctx, event, meta)

	change, err := s.sessionAssigner.Assign(ctx, project.TenantID, event, identity, derived.DeviceType, derived.CountryCode)
	if err != nil {
		return s.failedOutcome(ctx, item, err)
	}

	enriched := s.enricher.Enrich(event, identity, change.Session.SessionID, derived, project, receivedAt)

	result, err := s.eventStore.Write(ctx, enriched, change)
	if err != nil {
		return s.failedOutcome(ctx, item, err)
	}

	status := models.StatusAccepted
	if result.Duplicate {
		status = models.StatusDuplicate
	}
	return models.ItemOutcome{
		Index:     item.index,
		MessageID: event.MessageID,
		Status:    status,
	}
}

func (s *ingestionService) failedOutcome(ctx context.Context, item normalizedItem, err error) models.ItemOutcome {
	reason := models.ReasonStoreUnavailable
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		reason = models.ReasonDeadlineExceeded
	}
	loggers.Ctx(ctx).Warn().
		Err(err).
		Int("item_index", item.index).
		Msg("event processing failed")
	return models.ItemOutcome{
		Index:     item.index,
		MessageID: item.event.MessageID,
		Status:    models.StatusFailed,
		Reason:    reason,
	}
}

func (s *ingestionService) failRemaining(outcomes []models.ItemOutcome, remaining []normalizedItem) {
	for _, item := range remaining {
		outcomes[item.index] = models.ItemOutcome{
			Index:     item.index,
			MessageID: item.event.MessageID,
			Status:    models.StatusFailed,
			Reason:    models.ReasonDeadlineExceeded,
		}
	}
}
