package models

import "time"

// SessionChange is the session assigner's declarative output for one event:
// which session the event belongs to and what mutations the write must apply
// atomically alongside the event insert. The store performs the counter
// arithmetic itself so concurrent batches for the same visitor cannot lose
// increments.
type SessionChange struct {
	// Session is the target session's base row: identifying keys plus, for
	// new sessions, the first-event entry page, referrer, UTM, device and
	// geo fields.
	Session *Session
	// IsNew is true when this event opens the session.
	IsNew bool
	// ClosedSession, when set, is a prior session whose inactivity gap was
	// exceeded; it is finalized in the same transaction.
	ClosedSession *Session
	// CountPage is true when the event increments the session page count.
	CountPage bool
	// Converted marks this event as a conversion trigger. The session's
	// converted flag is set once and never cleared.
	Converted bool
	// ConversionEvent is the triggering event name when Converted is set.
	ConversionEvent string
	// UserID carries a resolved user ID to stitch onto the session in
	// place. Empty means the event is still anonymous.
	UserID string
	// Touch is the event timestamp the session's activity extends to.
	Touch time.Time
}
