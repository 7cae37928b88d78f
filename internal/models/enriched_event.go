package models

import "time"

// EnrichedEvent is the durable event record: the normalized client fields
// plus resolved identity and session keys and derived device, geo, and page
// context. (TenantID, MessageID) is the idempotency key; rows are immutable
// once written.
type EnrichedEvent struct {
	TenantID  string
	ProjectID string

	MessageID string
	EventID   string

	EventName string
	EventType string
	Channel   string

	AnonymousID string
	UserID      string
	SessionID   string

	Timestamp   time.Time
	ReceivedAt  time.Time
	ProcessedAt time.Time

	Properties map[string]any

	LibraryName    string
	LibraryVersion string
	Locale         string
	ScreenWidth    int
	ScreenHeight   int

	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	DeviceType     string

	CountryCode string
	City        string

	PagePath     string
	PageURL      string
	PageTitle    string
	PageReferrer string
}
