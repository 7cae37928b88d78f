package models

import "time"

// Session is a visitor's contiguous run of activity. A session stays open
// until a gap-exceeding event arrives for the same visitor; there is no
// background sweep, so an idle session with a stale LastActivityAt is a
// valid steady state.
//
// LastActivityAt moves forward with every attributed event. EndedAt is nil
// while the session is open; closing freezes it to the last activity time,
// never to the closing event's time. A closed session is immutable.
type Session struct {
	TenantID    string
	SessionID   string
	AnonymousID string
	// UserID is set in place once identity resolves, preserving the
	// continuity of sessions that started anonymously.
	UserID string

	StartedAt      time.Time
	LastActivityAt time.Time
	EndedAt        *time.Time
	DurationSecs   int64

	EventCount int64
	PageCount  int64

	EntryPage   string
	Referrer    string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	UTMTerm     string
	UTMContent  string

	DeviceType  string
	CountryCode string

	// Converted is set once on the first designated conversion event and
	// never cleared.
	Converted       bool
	ConversionEvent string
}

// Open reports whether the session has not been finalized.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}
