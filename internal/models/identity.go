package models

import "time"

// LinkSource records how an identity link came to exist.
type LinkSource string

const (
	// LinkSourceIdentify marks links created by an explicit identify event.
	LinkSourceIdentify LinkSource = "identify"
	// LinkSourceInferred marks links created because an event carried a
	// user ID without an explicit identify action.
	LinkSourceInferred LinkSource = "inferred"
)

// Identity is one durable anonymous→user link. Links are append-only: a
// newer link for the same anonymous ID supersedes older ones for resolution
// but never deletes them. Multiple anonymous IDs may link to the same user
// (multi-device); the reverse merge never happens implicitly.
type Identity struct {
	TenantID    string
	AnonymousID string
	UserID      string
	LinkSource  LinkSource
	LinkedAt    time.Time
	Traits      map[string]any
}

// ResolvedIdentity is the resolver's answer for one event.
type ResolvedIdentity struct {
	AnonymousID string
	// UserID is empty while the visitor is still anonymous.
	UserID string
	// IsNewLink is true when this event caused a new Identity row.
	IsNewLink bool
}
