package enrichers

import (
	"context"
	"net/url"
	"time"

	"event-analytics/internal/models"

	"github.com/mileusna/useragent"
)

// Device types derived from the user agent.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// RequestMetadata is the request-derived context the handler passes into
// enrichment: the caller's IP for geo lookup and a transport-level user
// agent fallback for items whose context carries none.
type RequestMetadata struct {
	IP        string
	UserAgent string
}

// Derived holds the I/O-dependent enrichment results computed once per
// event: parsed device fields and best-effort geo. It feeds both the session
// assigner (device type, country on new sessions) and the final record.
type Derived struct {
	BrowserName    string
	BrowserVersion string
	OSName         string
	OSVersion      string
	DeviceType     string
	CountryCode    string
	City           string
}

// Enricher augments a normalized event with request-derived context and the
// resolved identity and session keys.
//
//go:generate mockgen -source=enricher.go -destination=./mocks/enricher_mock.go -package=mocks
type Enricher interface {
	// Derive parses the user agent and resolves coarse geo for one event.
	// Unknown user agents and failed geo lookups yield empty fields, never
	// an error.
	Derive(ctx context.Context, event *models.NormalizedEvent, meta RequestMetadata) *Derived
	// Enrich assembles the durable event record. It is a pure function of
	// its inputs; receivedAt is the pipeline intake time and processedAt
	// is stamped at call time.
	Enrich(event *models.NormalizedEvent, identity *models.ResolvedIdentity, sessionID string, derived *Derived, project *models.Project, receivedAt time.Time) *models.EnrichedEvent
}

type enricher struct {
	geoResolver GeoResolver
	now         func() time.Time
}

func NewEnricher(geoResolver GeoResolver) Enricher {
	return &enricher{
		geoResolver: geoResolver,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (e *enricher) Derive(ctx context.Context, event *models.NormalizedEvent, meta RequestMetadata) *Derived {
	derived := &Derived{}

	uaString := event.Context.UserAgent
	if uaString == "" {
		uaString = meta.UserAgent
	}
	if uaString != "" {
		ua := useragent.Parse(uaString)
		derived.BrowserName = ua.Name
		derived.BrowserVersion = ua.Version
		derived.OSName = ua.OS
		derived.OSVersion = ua.OSVersion
		derived.DeviceType = deviceType(ua)
	}

	ip := event.Context.IP
	if ip == "" {
		ip = meta.IP
	}
	if ip != "" {
		// Geo is best-effort: a failed or slow lookup degrades to empty
		// fields and never fails the event.
		if location, err := e.geoResolver.Lookup(ctx, ip); err == nil {
			derived.CountryCode = location.CountryCode
			derived.City = location.City
		}
	}

	return derived
}

func (e *enricher) Enrich(event *models.NormalizedEvent, identity *models.ResolvedIdentity, sessionID string, derived *Derived, project *models.Project, receivedAt time.Time) *models.EnrichedEvent {
	page := event.Context.Page
	channel := event.Context.Channel
	if channel == "" {
		channel = models.ChannelWeb
	}

	return &models.EnrichedEvent{
		TenantID:  project.TenantID,
		ProjectID: project.ProjectID,

		MessageID: event.MessageID,
		EventID:   event.EventID,

		EventName: event.EventName,
		EventType: event.EventType,
		Channel:   channel,

		AnonymousID: identity.AnonymousID,
		UserID:      identity.UserID,
		SessionID:   sessionID,

		Timestamp:   event.Timestamp,
		ReceivedAt:  receivedAt,
		ProcessedAt: e.now(),

		Properties: event.Properties,

		LibraryName:    event.Context.Library.Name,
		LibraryVersion: event.Context.Library.Version,
		Locale:         event.Context.Locale,
		ScreenWidth:    event.Context.Screen.Width,
		ScreenHeight:   event.Context.Screen.Height,

		BrowserName:    derived.BrowserName,
		BrowserVersion: derived.BrowserVersion,
		OSName:         derived.OSName,
		OSVersion:      derived.OSVersion,
		DeviceType:     derived.DeviceType,

		CountryCode: derived.CountryCode,
		City:        derived.City,

		PagePath:     pagePath(page),
		PageURL:      page.URL,
		PageTitle:    page.Title,
		PageReferrer: page.Referrer,
	}
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Tablet:
		return DeviceTablet
	case ua.Mobile:
		return DeviceMobile
	case ua.Desktop:
		return DeviceDesktop
	default:
		return ""
	}
}

func pagePath(page models.RawPage) string {
	if page.Path != "" {
		return page.Path
	}
	if page.URL != "" {
		if parsed, err := url.Parse(page.URL); err == nil {
			return parsed.Path
		}
	}
	return ""
}
