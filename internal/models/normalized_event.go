package models

import "time"

// FieldSource tags how a normalized field value was obtained. Every repair
// path is deterministic, so the same raw input always yields the same
// normalized value and the same tag.
type FieldSource string

const (
	// SourceValid means the client supplied a well-formed value.
	SourceValid FieldSource = "valid"
	// SourceRecovered means the client value was malformed and a stable
	// value was deterministically derived from it.
	SourceRecovered FieldSource = "recovered"
	// SourceSynthesized means the client supplied nothing and a fresh
	// value was generated.
	SourceSynthesized FieldSource = "synthesized"
)

// NormalizedEvent is a RawEvent after repair: identifiers are well-formed
// and stable, the timestamp is an absolute instant, and the event name has
// been validated. It is the unit handed through the rest of the pipeline.
type NormalizedEvent struct {
	EventID     string
	EventName   string
	EventType   string
	Timestamp   time.Time
	AnonymousID string
	UserID      string
	SessionID   string
	MessageID   string

	EventIDSource     FieldSource
	AnonymousIDSource FieldSource
	SessionIDSource   FieldSource
	TimestampSource   FieldSource

	Context    RawContext
	Properties map[string]any
	Traits     map[string]any
}

// IsIdentify reports whether the event is an explicit identify action, as
// opposed to an event that merely carries a user ID.
func (e *NormalizedEvent) IsIdentify() bool {
	return e.EventType == EventTypeIdentify
}

// IsPageView reports whether the event counts toward a session's page count.
func (e *NormalizedEvent) IsPageView() bool {
	return e.EventType == EventTypePage || e.EventType == EventTypeScreen
}
