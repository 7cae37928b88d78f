package stores

import (
	"context"
	"database/sql"
	"fmt"

	"event-analytics/internal/models"
)

// WriteResult reports the outcome of persisting one logical event.
type WriteResult struct {
	// Duplicate is true when (tenant, messageId) was already ingested by a
	// previous delivery. The session rollup is not applied for duplicates.
	Duplicate bool
}

// EventStore persists enriched events and applies the owning session's
// rollup in the same transaction, so a crash cannot produce a session
// mutation without its triggering event or vice versa.
//
//go:generate mockgen -source=event_store.go -destination=./mocks/event_store_mock.go -package=mocks
type EventStore interface {
	// Write inserts the event keyed on (tenant, messageId) and applies the
	// session change atomically. A conflict on the idempotency key commits
	// with no session mutation and reports Duplicate.
	Write(ctx context.Context, event *models.EnrichedEvent, change *models.SessionChange) (*WriteResult, error)
}

type eventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) Write(ctx context.Context, event *models.EnrichedEvent, change *models.SessionChange) (*WriteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	inserted, err := s.insertEvent(ctx, tx, event)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Re-delivered event: commit without touching the session so
		// counters reflect each logical event exactly once.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit duplicate event: %w", err)
		}
		metricEventsWrittenTotal.WithLabelValues(resultDuplicate).Inc()
		return &WriteResult{Duplicate: true}, nil
	}

	if change != nil {
		if change.ClosedSession != nil {
			if err := s.closeSession(ctx, tx, change.ClosedSession); err != nil {
				return nil, err
			}
		}
		if err := s.upsertSession(ctx, tx, change); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event write: %w", err)
	}
	metricEventsWrittenTotal.WithLabelValues(resultAccepted).Inc()
	return &WriteResult{}, nil
}

func (s *eventStore) insertEvent(ctx context.Context, tx *sql.Tx, event *models.EnrichedEvent) (bool, error) {
	const query = `
		INSERT INTO events (
			tenant_id, project_id, message_id, event_id,
			event_name, event_type, channel,
			anonymous_id, user_id, session_id,
			event_time, received_at, processed_at,
			properties,
			library_name, library_version, locale, screen_width, screen_height,
			browser_name, browser_version, os_name, os_version, device_type,
			country_code, city,
			page_path, page_url, page_title, page_referrer
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		)
		ON CONFLICT (tenant_id, message_id) DO NOTHING`

	propsJSON, err := marshalJSONMap(event.Properties)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event properties: %w", err)
	}

	result, err := tx.ExecContext(ctx, query,
		event.TenantID, event.ProjectID, event.MessageID, event.EventID,
		event.EventName, event.EventType, event.Channel,
		event.AnonymousID, nullIfEmpty(event.UserID), event.SessionID,
		event.Timestamp, event.ReceivedAt, event.ProcessedAt,
		propsJSON,
		event.LibraryName, event.LibraryVersion, event.Locale, event.ScreenWidth, event.ScreenHeight,
		event.BrowserName, event.BrowserVersion, event.OSName, event.OSVersion, event.DeviceType,
		event.CountryCode, event.City,
		event.PagePath, event.PageURL, event.PageTitle, event.PageReferrer,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read event insert result: %w", err)
	}
	return rows == 1, nil
}

// closeSession finalizes a gap-exceeded session. The frozen ended_at is the
// session's own last activity time, not the closing event's time. Closed
// sessions are immutable: the ended_at IS NULL guard makes re-closing a
// no-op under concurrent writers.
func (s *eventStore) closeSession(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	const query = `
		UPDATE sessions
		SET ended_at = last_activity_at,
		    duration_seconds = CAST(EXTRACT(EPOCH FROM (last_activity_at - started_at)) AS BIGINT)
		WHERE tenant_id = $1 AND session_id = $2 AND ended_at IS NULL`

	if _, err := tx.ExecContext(ctx, query, session.TenantID, session.SessionID); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	metricSessionsClosedTotal.Inc()
	return nil
}

// upsertSession opens or extends the target session. All arithmetic happens
// in SQL against the stored row, so two batches writing the same visitor
// concurrently cannot lose counter increments. The ended_at IS NULL guard
// keeps closed sessions immutable.
func (s *eventStore) upsertSession(ctx context.Context, tx *sql.Tx, change *models.SessionChange) error {
	const query = `
		INSERT INTO sessions (
			tenant_id, session_id, anonymous_id, user_id,
			started_at, last_activity_at, duration_seconds,
			event_count, page_count,
			entry_page, referrer, utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			device_type, country_code, converted, conversion_event
		) VALUES (
			$1, $2, $3, $4, $5, $6, 0, 1, $7,
			$8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (tenant_id, session_id) DO UPDATE SET
			last_activity_at = GREATEST(sessions.last_activity_at, EXCLUDED.last_activity_at),
			duration_seconds = CAST(EXTRACT(EPOCH FROM (
				GREATEST(sessions.last_activity_at, EXCLUDED.last_activity_at) - sessions.started_at
			)) AS BIGINT),
			event_count = sessions.event_count + 1,
			page_count = sessions.page_count + EXCLUDED.page_count,
			user_id = COALESCE(sessions.user_id, EXCLUDED.user_id),
			converted = sessions.converted OR EXCLUDED.converted,
			conversion_event = CASE
				WHEN sessions.converted THEN sessions.conversion_event
				ELSE COALESCE(sessions.conversion_event, EXCLUDED.conversion_event)
			END
		WHERE sessions.ended_at IS NULL`

	session := change.Session
	pageInc := 0
	if change.CountPage {
		pageInc = 1
	}

	userID := change.UserID
	if userID == "" {
		userID = session.UserID
	}

	_, err := tx.ExecContext(ctx, query,
		session.TenantID, session.SessionID, session.AnonymousID, nullIfEmpty(userID),
		session.StartedAt, change.Touch, pageInc,
		session.EntryPage, session.Referrer,
		session.UTMSource, session.UTMMedium, session.UTMCampaign, session.UTMTerm, session.UTMContent,
		session.DeviceType, session.CountryCode,
		change.Converted, nullIfEmpty(change.ConversionEvent),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	if change.IsNew {
		metricSessionsOpenedTotal.Inc()
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
