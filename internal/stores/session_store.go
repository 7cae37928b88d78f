package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-analytics/internal/models"
)

// SessionStore reads session state for assignment decisions. All session
// writes go through EventStore so they commit atomically with the event that
// caused them.
//
//go:generate mockgen -source=session_store.go -destination=./mocks/session_store_mock.go -package=mocks
type SessionStore interface {
	// GetLatest returns the visitor's most recent session by start time,
	// open or closed, or (nil, nil) when the visitor has none.
	GetLatest(ctx context.Context, tenantID, anonymousID string) (*models.Session, error)
}

type sessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) SessionStore {
	return &sessionStore{db: db}
}

const sessionColumns = `
	tenant_id, session_id, anonymous_id, user_id,
	started_at, last_activity_at, ended_at, duration_seconds,
	event_count, page_count,
	entry_page, referrer, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
	device_type, country_code, converted, conversion_event`

func (s *sessionStore) GetLatest(ctx context.Context, tenantID, anonymousID string) (*models.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tenant_id = $1 AND anonymous_id = $2
		ORDER BY started_at DESC
		LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, tenantID, anonymousID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	return session, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var session models.Session
	var userID, conversionEvent sql.NullString
	var endedAt sql.NullTime

	err := row.Scan(
		&session.TenantID,
		&session.SessionID,
		&session.AnonymousID,
		&userID,
		&session.StartedAt,
		&session.LastActivityAt,
		&endedAt,
		&session.DurationSecs,
		&session.EventCount,
		&session.PageCount,
		&session.EntryPage,
		&session.Referrer,
		&session.UTMSource,
		&session.UTMMedium,
		&session.UTMCampaign,
		&session.UTMTerm,
		&session.UTMContent,
		&session.DeviceType,
		&session.CountryCode,
		&session.Converted,
		&conversionEvent,
	)
	if err != nil {
		return nil, err
	}

	session.UserID = userID.String
	session.ConversionEvent = conversionEvent.String
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	return &session, nil
}
