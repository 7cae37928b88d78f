package sessions

import (
	"context"
	"fmt"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/stores"

	"github.com/google/uuid"
)

// SessionAssigner maps an event to its owning session: it extends the
// visitor's open session when the inactivity gap allows, or closes it and
// opens a new one. Sessions close lazily on next-event evaluation only;
// there is no background sweep.
//
//go:generate mockgen -source=assigner.go -destination=./mocks/assigner_mock.go -package=mocks
type SessionAssigner interface {
	// Assign decides the session for one event. deviceType and
	// countryCode seed new sessions from enrichment-derived context.
	// The returned change is applied by the writer atomically with the
	// event insert.
	Assign(ctx context.Context, tenantID string, event *models.NormalizedEvent, identity *models.ResolvedIdentity, deviceType, countryCode string) (*models.SessionChange, error)
}

type sessionAssigner struct {
	sessionStore     stores.SessionStore
	inactivityGap    time.Duration
	conversionEvents map[string]struct{}
}

func NewSessionAssigner(sessionStore stores.SessionStore, inactivityGap time.Duration, conversionEvents []string) SessionAssigner {
	conversions := make(map[string]struct{}, len(conversionEvents))
	for _, name := range conversionEvents {
		conversions[name] = struct{}{}
	}
	return &sessionAssigner{
		sessionStore:     sessionStore,
		inactivityGap:    inactivityGap,
		conversionEvents: conversions,
	}
}

func (a *sessionAssigner) Assign(ctx context.Context, tenantID string, event *models.NormalizedEvent, identity *models.ResolvedIdentity, deviceType, countryCode string) (*models.SessionChange, error) {
	latest, err := a.sessionStore.GetLatest(ctx, tenantID, event.AnonymousID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}

	if latest != nil && latest.Open() {
		// Events may arrive out of order across batches; a negative gap
		// still belongs to the open session.
		gap := event.Timestamp.Sub(latest.LastActivityAt)
		if gap <= a.inactivityGap {
			change := &models.SessionChange{
				Session:   latest,
				Touch:     event.Timestamp,
				CountPage: event.IsPageView(),
				UserID:    identity.UserID,
			}
			a.markConversion(change, event, latest.Converted)
			metricAssignmentsTotal.WithLabelValues(assignExtended).Inc()
			return change, nil
		}

		// Gap exceeded: the open session is finalized at its own last
		// activity, and a fresh session starts at this event.
		change := a.openSession(tenantID, event, identity, deviceType, countryCode)
		change.ClosedSession = latest
		metricAssignmentsTotal.WithLabelValues(assignRotated).Inc()
		return change, nil
	}

	change := a.openSession(tenantID, event, identity, deviceType, countryCode)
	metricAssignmentsTotal.WithLabelValues(assignOpened).Inc()
	return change, nil
}

// openSession builds the change that opens a new session at the event's
// timestamp, capturing entry page, referrer, and UTM fields from the first
// event's page context.
func (a *sessionAssigner) openSession(tenantID string, event *models.NormalizedEvent, identity *models.ResolvedIdentity, deviceType, countryCode string) *models.SessionChange {
	page := event.Context.Page
	utm := parseUTM(page)

	session := &models.Session{
		TenantID:       tenantID,
		SessionID:      uuid.NewString(),
		AnonymousID:    event.AnonymousID,
		UserID:         identity.UserID,
		StartedAt:      event.Timestamp,
		LastActivityAt: event.Timestamp,
		EntryPage:      entryPage(page),
		Referrer:       page.Referrer,
		UTMSource:      utm.Source,
		UTMMedium:      utm.Medium,
		UTMCampaign:    utm.Campaign,
		UTMTerm:        utm.Term,
		UTMContent:     utm.Content,
		DeviceType:     deviceType,
		CountryCode:    countryCode,
	}

	change := &models.SessionChange{
		Session:   session,
		IsNew:     true,
		Touch:     event.Timestamp,
		CountPage: event.IsPageView(),
		UserID:    identity.UserID,
	}
	a.markConversion(change, event, false)
	return change
}

// markConversion flags the change when the event name is a designated
// conversion and the session has not converted yet. Once set the session's
// converted flag is never cleared.
func (a *sessionAssigner) markConversion(change *models.SessionChange, event *models.NormalizedEvent, alreadyConverted bool) {
	if alreadyConverted {
		return
	}
	if _, ok := a.conversionEvents[event.EventName]; !ok {
		return
	}
	change.Converted = true
	change.ConversionEvent = event.EventName
	metricConversionsTotal.Inc()
}
