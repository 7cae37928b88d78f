package enrichers_test

import (
	"context"
	"testing"
	"time"

	"event-analytics/internal/enrichers"
	"event-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var receivedAt = time.Date(2025, 11, 2, 9, 14, 5, 0, time.UTC)

func normalizedEvent() *models.NormalizedEvent {
	return &models.NormalizedEvent{
		EventID:     "5f6d0a6e-5cb1-4d08-9d0b-0a8f2f1d9c11",
		EventName:   "page_viewed",
		EventType:   models.EventTypePage,
		Timestamp:   time.Date(2025, 11, 2, 9, 14, 2, 0, time.UTC),
		AnonymousID: "0d0f2b9c-90c4-4f40-a7cb-0a5c9a33f001",
		MessageID:   "m-8842",
		Context: models.RawContext{
			Library:   models.RawLibrary{Name: "analytics.js", Version: "2.4.1"},
			UserAgent: chromeOnWindows,
			Locale:    "en-US",
			IP:        "203.0.113.7",
			Screen:    models.RawScreen{Width: 1920, Height: 1080},
			Page: models.RawPage{
				Path:     "/pricing",
				Title:    "Pricing",
				Referrer: "https://google.com/",
				URL:      "https://acme.io/pricing",
			},
		},
	}
}

func TestDerive_UserAgent(t *testing.T) {
	t.Parallel()

	enricher := enrichers.NewEnricher(enrichers.NoopGeoResolver())

	derived := enricher.Derive(context.Background(), normalizedEvent(), enrichers.RequestMetadata{})

	assert.Equal(t, "Chrome", derived.BrowserName)
	assert.Equal(t, "Windows", derived.OSName)
	assert.Equal(t, enrichers.DeviceDesktop, derived.DeviceType)
}

func TestDerive_FallsBackToRequestUserAgent(t *testing.T) {
	t.Parallel()

	enricher := enrichers.NewEnricher(enrichers.NoopGeoResolver())
	event := normalizedEvent()
	event.Context.UserAgent = ""

	derived := enricher.Derive(context.Background(), event, enrichers.RequestMetadata{UserAgent: chromeOnWindows})

	assert.Equal(t, "Chrome", derived.BrowserName)
}

func TestDerive_UnknownUserAgent(t *testing.T) {
	t.Parallel()

	enricher := enrichers.NewEnricher(enrichers.NoopGeoResolver())
	event := normalizedEvent()
	event.Context.UserAgent = ""

	derived := enricher.Derive(context.Background(), event, enrichers.RequestMetadata{})

	assert.Empty(t, derived.BrowserName)
	assert.Empty(t, derived.DeviceType)
}

func TestDerive_Geo(t *testing.T) {
	t.Parallel()

	t.Run("successful lookup fills country and city", func(t *testing.T) {
		var lookedUp string
		resolver := enrichers.GeoResolverFunc(func(ctx context.Context, ip string) (*enrichers.GeoLocation, error) {
			lookedUp = ip
			return &enrichers.GeoLocation{CountryCode: "DE", City: "Berlin"}, nil
		})
		enricher := enrichers.NewEnricher(resolver)

		derived := enricher.Derive(context.Background(), normalizedEvent(), enrichers.RequestMetadata{})

		assert.Equal(t, "203.0.113.7", lookedUp)
		assert.Equal(t, "DE", derived.CountryCode)
		assert.Equal(t, "Berlin", derived.City)
	})

	t.Run("failed lookup degrades to empty fields", func(t *testing.T) {
		resolver := enrichers.GeoResolverFunc(func(ctx context.Context, ip string) (*enrichers.GeoLocation, error) {
			return nil, assert.AnError
		})
		enricher := enrichers.NewEnricher(resolver)

		derived := enricher.Derive(context.Background(), normalizedEvent(), enrichers.RequestMetadata{})

		assert.Empty(t, derived.CountryCode)
		assert.Empty(t, derived.City)
	})

	t.Run("request IP used when context carries none", func(t *testing.T) {
		var lookedUp string
		resolver := enrichers.GeoResolverFunc(func(ctx context.Context, ip string) (*enrichers.GeoLocation, error) {
			lookedUp = ip
			return nil, assert.AnError
		})
		enricher := enrichers.NewEnricher(resolver)
		event := normalizedEvent()
		event.Context.IP = ""

		enricher.Derive(context.Background(), event, enrichers.RequestMetadata{IP: "198.51.100.9"})

		assert.Equal(t, "198.51.100.9", lookedUp)
	})
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	enricher := enrichers.NewEnricher(enrichers.NoopGeoResolver())
	event := normalizedEvent()
	identity := &models.ResolvedIdentity{
		AnonymousID: event.AnonymousID,
		UserID:      "user-42",
	}
	derived := &enrichers.Derived{
		BrowserName: "Chrome",
		OSName:      "Windows",
		DeviceType:  enrichers.DeviceDesktop,
		CountryCode: "DE",
		City:        "Berlin",
	}
	project := &models.Project{ProjectID: "proj1", TenantID: "tenant1"}

	enriched := enricher.Enrich(event, identity, "sess-1", derived, project, receivedAt)

	require.NotNil(t, enriched)
	assert.Equal(t, "tenant1", enriched.TenantID)
	assert.Equal(t, "proj1", enriched.ProjectID)
	assert.Equal(t, "m-8842", enriched.MessageID)
	assert.Equal(t, "user-42", enriched.UserID)
	assert.Equal(t, "sess-1", enriched.SessionID)
	assert.Equal(t, models.ChannelWeb, enriched.Channel, "channel defaults to web")
	assert.Equal(t, event.Timestamp, enriched.Timestamp)
	assert.Equal(t, receivedAt, enriched.ReceivedAt)
	assert.False(t, enriched.ProcessedAt.IsZero())
	assert.Equal(t, "Chrome", enriched.BrowserName)
	assert.Equal(t, "DE", enriched.CountryCode)
	assert.Equal(t, "/pricing", enriched.PagePath)
	assert.Equal(t, "Pricing", enriched.PageTitle)
	assert.Equal(t, 1920, enriched.ScreenWidth)
}

func TestEnrich_PagePathFromURL(t *testing.T) {
	t.Parallel()

	enricher := enrichers.NewEnricher(enrichers.NoopGeoResolver())
	event := normalizedEvent()
	event.Context.Page.Path = ""
	event.Context.Channel = models.ChannelApp

	enriched := enricher.Enrich(event, &models.ResolvedIdentity{AnonymousID: event.AnonymousID}, "sess-1", &enrichers.Derived{}, &models.Project{}, receivedAt)

	assert.Equal(t, "/pricing", enriched.PagePath)
	assert.Equal(t, models.ChannelApp, enriched.Channel)
}
