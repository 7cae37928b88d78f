package normalizers_test

import (
	"strings"
	"testing"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/normalizers"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receivedAt = time.Date(2025, 11, 2, 9, 14, 5, 0, time.UTC)

func rawEvent(name string) *models.RawEvent {
	return &models.RawEvent{
		EventName:   name,
		AnonymousID: "0d0f2b9c-90c4-4f40-a7cb-0a5c9a33f001",
	}
}

func TestNormalize_RejectsEventName(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	tests := []struct {
		name      string
		eventName string
		wantErr   error
	}{
		{
			name:      "missing event name",
			eventName: "",
			wantErr:   normalizers.ErrMissingEventName,
		},
		{
			name:      "whitespace-only event name",
			eventName: "   ",
			wantErr:   normalizers.ErrMissingEventName,
		},
		{
			name:      "event name too long",
			eventName: strings.Repeat("a", 201),
			wantErr:   normalizers.ErrEventNameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := normalizer.Normalize(rawEvent(tt.eventName), 0, receivedAt)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, event)
		})
	}
}

func TestNormalize_IdentifierRepair(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	t.Run("well-formed UUID passes through canonically", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.EventID = "5F6D0A6E-5CB1-4D08-9D0B-0A8F2F1D9C11"

		event, err := normalizer.Normalize(item, 0, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, "5f6d0a6e-5cb1-4d08-9d0b-0a8f2f1d9c11", event.EventID)
		assert.Equal(t, models.SourceValid, event.EventIDSource)
	})

	t.Run("malformed identifier derives deterministically", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.AnonymousID = "visitor-77"

		first, err := normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)
		second, err := normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)

		assert.Equal(t, models.SourceRecovered, first.AnonymousIDSource)
		assert.Equal(t, first.AnonymousID, second.AnonymousID)
		_, parseErr := uuid.Parse(first.AnonymousID)
		assert.NoError(t, parseErr)
	})

	t.Run("absent identifier synthesizes fresh value", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.EventID = ""

		first, err := normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)
		second, err := normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)

		assert.Equal(t, models.SourceSynthesized, first.EventIDSource)
		assert.NotEqual(t, first.EventID, second.EventID)
	})
}

func TestNormalize_TimestampLadder(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	tests := []struct {
		name       string
		timestamp  any
		want       time.Time
		wantSource models.FieldSource
	}{
		{
			name:       "RFC3339 with millis",
			timestamp:  "2025-11-02T09:14:02.900Z",
			want:       time.Date(2025, 11, 2, 9, 14, 2, 900_000_000, time.UTC),
			wantSource: models.SourceValid,
		},
		{
			name:       "RFC3339 with offset",
			timestamp:  "2025-11-02T10:14:02+01:00",
			want:       time.Date(2025, 11, 2, 9, 14, 2, 0, time.UTC),
			wantSource: models.SourceValid,
		},
		{
			name:       "space-separated datetime recovered",
			timestamp:  "2025-11-02 09:14:02",
			want:       time.Date(2025, 11, 2, 9, 14, 2, 0, time.UTC),
			wantSource: models.SourceRecovered,
		},
		{
			name:       "bare date recovered",
			timestamp:  "2025-11-02",
			want:       time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
			wantSource: models.SourceRecovered,
		},
		{
			name:       "epoch seconds recovered",
			timestamp:  float64(1762074842),
			want:       time.Unix(1762074842, 0).UTC(),
			wantSource: models.SourceRecovered,
		},
		{
			name:       "epoch milliseconds recovered",
			timestamp:  float64(1762074842900),
			want:       time.UnixMilli(1762074842900).UTC(),
			wantSource: models.SourceRecovered,
		},
		{
			name:       "numeric string recovered",
			timestamp:  "1762074842",
			want:       time.Unix(1762074842, 0).UTC(),
			wantSource: models.SourceRecovered,
		},
		{
			name:       "garbage falls back to intake time",
			timestamp:  "not-a-time",
			want:       receivedAt,
			wantSource: models.SourceSynthesized,
		},
		{
			name:       "absent falls back to intake time",
			timestamp:  nil,
			want:       receivedAt,
			wantSource: models.SourceSynthesized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := rawEvent("page_viewed")
			item.Timestamp = tt.timestamp

			event, err := normalizer.Normalize(item, 0, receivedAt)

			require.NoError(t, err)
			assert.Equal(t, tt.want, event.Timestamp)
			assert.Equal(t, tt.wantSource, event.TimestampSource)
		})
	}
}

func TestNormalize_ClockSkewCorrection(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	t.Run("large skew shifts client timestamps", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.Timestamp = "2025-11-02T09:14:02Z"

		event, err := normalizer.Normalize(item, 2*time.Minute, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 11, 2, 9, 16, 2, 0, time.UTC), event.Timestamp)
	})

	t.Run("sub-second skew is ignored", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.Timestamp = "2025-11-02T09:14:02Z"

		event, err := normalizer.Normalize(item, 500*time.Millisecond, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 11, 2, 9, 14, 2, 0, time.UTC), event.Timestamp)
	})

	t.Run("synthesized timestamps are never shifted", func(t *testing.T) {
		item := rawEvent("page_viewed")

		event, err := normalizer.Normalize(item, 2*time.Minute, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, receivedAt, event.Timestamp)
	})
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	t.Run("message ID falls back to event ID", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.EventID = "5f6d0a6e-5cb1-4d08-9d0b-0a8f2f1d9c11"

		event, err := normalizer.Normalize(item, 0, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, event.EventID, event.MessageID)
	})

	t.Run("client message ID wins", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.MessageID = "m-8842"

		event, err := normalizer.Normalize(item, 0, receivedAt)

		require.NoError(t, err)
		assert.Equal(t, "m-8842", event.MessageID)
	})

	t.Run("event type lowercased with track default", func(t *testing.T) {
		item := rawEvent("page_viewed")
		item.EventType = "PAGE"

		event, err := normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, models.EventTypePage, event.EventType)

		item.EventType = ""
		event, err = normalizer.Normalize(item, 0, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, models.EventTypeTrack, event.EventType)
	})
}

func TestClockSkew(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()

	tests := []struct {
		name   string
		sentAt any
		want   time.Duration
	}{
		{
			name:   "client clock behind server",
			sentAt: "2025-11-02T09:13:05Z",
			want:   time.Minute,
		},
		{
			name:   "client clock ahead of server",
			sentAt: "2025-11-02T09:15:05Z",
			want:   -time.Minute,
		},
		{
			name:   "absent sentAt",
			sentAt: nil,
			want:   0,
		},
		{
			name:   "unparsable sentAt",
			sentAt: "yesterday",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizer.ClockSkew(tt.sentAt, receivedAt))
		})
	}
}

func TestNormalize_IdentifierRepairProperties(t *testing.T) {
	t.Parallel()

	normalizer := normalizers.NewNormalizer()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("repaired identifiers are always well-formed UUIDs", prop.ForAll(
		func(raw string) bool {
			item := rawEvent("page_viewed")
			item.AnonymousID = raw
			event, err := normalizer.Normalize(item, 0, receivedAt)
			if err != nil {
				return false
			}
			_, parseErr := uuid.Parse(event.AnonymousID)
			return parseErr == nil
		},
		gen.AnyString(),
	))

	properties.Property("repair is deterministic for non-empty input", prop.ForAll(
		func(raw string) bool {
			if strings.TrimSpace(raw) == "" {
				return true
			}
			item := rawEvent("page_viewed")
			item.AnonymousID = raw
			first, err := normalizer.Normalize(item, 0, receivedAt)
			if err != nil {
				return false
			}
			second, err := normalizer.Normalize(item, 0, receivedAt)
			if err != nil {
				return false
			}
			return first.AnonymousID == second.AnonymousID
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
