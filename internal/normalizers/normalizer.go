package normalizers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"event-analytics/internal/models"

	"github.com/google/uuid"
)

const maxEventNameLen = 200

// Per-item rejection errors. The error text doubles as the stable reason
// string reported in the batch response.
var (
	ErrMissingEventName = errors.New(models.ReasonMissingEventName)
	ErrEventNameTooLong = errors.New(models.ReasonEventNameTooLong)
)

// idNamespace is the fixed namespace for deriving stable identifiers from
// malformed client strings. Changing it would re-key every derived visitor,
// so it is a constant for the lifetime of the stored data.
var idNamespace = uuid.MustParse("9f2c1b52-7c46-4d28-a5e4-3f60b8a4e7d1")

// Normalizer validates and repairs one raw batch item into a well-formed
// event. It is a pure transform: failures are per-item and carry no side
// effects, so the batch endpoint can report partial success.
//
//go:generate mockgen -source=normalizer.go -destination=./mocks/normalizer_mock.go -package=mocks
type Normalizer interface {
	// Normalize repairs one item. skew is the batch-level clock correction
	// from ClockSkew; receivedAt is the pipeline intake time used when a
	// timestamp must be synthesized.
	Normalize(item *models.RawEvent, skew time.Duration, receivedAt time.Time) (*models.NormalizedEvent, error)
	// ClockSkew computes the client clock drift for a batch from its
	// sentAt value. Unparsable or absent sentAt yields zero drift.
	ClockSkew(sentAt any, receivedAt time.Time) time.Duration
}

type normalizer struct{}

func NewNormalizer() Normalizer {
	return &normalizer{}
}

func (n *normalizer) Normalize(item *models.RawEvent, skew time.Duration, receivedAt time.Time) (*models.NormalizedEvent, error) {
	eventName := strings.TrimSpace(item.EventName)
	if eventName == "" {
		metricItemsNormalizedTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrMissingEventName
	}
	if len(eventName) > maxEventNameLen {
		metricItemsNormalizedTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrEventNameTooLong
	}

	eventID, eventIDSource := normalizeID(item.EventID)
	anonymousID, anonymousIDSource := normalizeID(item.AnonymousID)
	sessionID, sessionIDSource := normalizeID(item.SessionID)

	timestamp, timestampSource := parseTimestamp(item.Timestamp, receivedAt)
	// Client clock drift only applies to client-supplied instants.
	if timestampSource != models.SourceSynthesized && absDuration(skew) > time.Second {
		timestamp = timestamp.Add(skew)
	}

	// The idempotency key must be stable per logical event. Without a
	// client messageId the normalized event ID stands in, which stays
	// stable across retries as long as the client supplied any event ID.
	messageID := strings.TrimSpace(item.MessageID)
	if messageID == "" {
		messageID = eventID
	}

	eventType := strings.TrimSpace(strings.ToLower(item.EventType))
	if eventType == "" {
		eventType = models.EventTypeTrack
	}

	event := &models.NormalizedEvent{
		EventID:     eventID,
		EventName:   eventName,
		EventType:   eventType,
		Timestamp:   timestamp,
		AnonymousID: anonymousID,
		UserID:      strings.TrimSpace(item.UserID),
		SessionID:   sessionID,
		MessageID:   messageID,

		EventIDSource:     eventIDSource,
		AnonymousIDSource: anonymousIDSource,
		SessionIDSource:   sessionIDSource,
		TimestampSource:   timestampSource,

		Context:    item.Context,
		Properties: item.Properties,
		Traits:     item.Traits,
	}
	metricItemsNormalizedTotal.WithLabelValues(outcomeAccepted).Inc()
	return event, nil
}

func (n *normalizer) ClockSkew(sentAt any, receivedAt time.Time) time.Duration {
	if sentAt == nil {
		return 0
	}
	parsed, source := parseTimestamp(sentAt, receivedAt)
	if source == models.SourceSynthesized {
		return 0
	}
	return receivedAt.Sub(parsed)
}

// normalizeID turns an untrusted identifier field into a stable identifier.
// Empty input synthesizes a fresh random ID; a well-formed UUID passes
// through in canonical form; anything else derives a UUIDv5 under the fixed
// namespace, so the same raw string always yields the same identifier.
func normalizeID(raw string) (string, models.FieldSource) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewString(), models.SourceSynthesized
	}
	if parsed, err := uuid.Parse(raw); err == nil {
		return parsed.String(), models.SourceValid
	}
	return uuid.NewSHA1(idNamespace, []byte(raw)).String(), models.SourceRecovered
}

// timestampLayouts are tried in order for string timestamps. RFC3339
// variants count as valid; the looser layouts count as recovered.
var timestampLayouts = []struct {
	layout string
	valid  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05.000Z", true},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02", false},
}

// parseTimestamp resolves a client timestamp value to an absolute instant.
// Strings go through the layout ladder, then an epoch-number reading;
// numbers are epoch seconds or milliseconds. Anything unusable falls back
// to the processing time.
func parseTimestamp(value any, now time.Time) (time.Time, models.FieldSource) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return now, models.SourceSynthesized
		}
		for _, candidate := range timestampLayouts {
			if t, err := time.Parse(candidate.layout, v); err == nil {
				source := models.SourceRecovered
				if candidate.valid {
					source = models.SourceValid
				}
				return t.UTC(), source
			}
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return epochToTime(n), models.SourceRecovered
		}
		return now, models.SourceSynthesized
	case float64:
		return epochToTime(v), models.SourceRecovered
	case int64:
		return epochToTime(float64(v)), models.SourceRecovered
	case int:
		return epochToTime(float64(v)), models.SourceRecovered
	default:
		return now, models.SourceSynthesized
	}
}

// epochToTime interprets a numeric timestamp. Values at or above 1e11 are
// epoch milliseconds (1e11 seconds is past year 5000), otherwise seconds.
func epochToTime(n float64) time.Time {
	if n >= 1e11 {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
