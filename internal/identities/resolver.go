package identities

import (
	"context"
	"fmt"

	"event-analytics/internal/models"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/stores"
)

// IdentityResolver answers "who is this actor" for one event and records
// new anonymous→user links as they are observed. Links are append-only:
// a later link to a different user supersedes the old one for resolution
// but never overwrites it.
//
// Resolution never merges two anonymous IDs into one row implicitly; only
// event-supplied (anonymousId, userId) pairs create links.
//
//go:generate mockgen -source=resolver.go -destination=./mocks/resolver_mock.go -package=mocks
type IdentityResolver interface {
	Resolve(ctx context.Context, tenantID string, event *models.NormalizedEvent) (*models.ResolvedIdentity, error)
}

type identityResolver struct {
	identityStore stores.IdentityStore
}

func NewIdentityResolver(identityStore stores.IdentityStore) IdentityResolver {
	return &identityResolver{identityStore: identityStore}
}

func (r *identityResolver) Resolve(ctx context.Context, tenantID string, event *models.NormalizedEvent) (*models.ResolvedIdentity, error) {
	latest, err := r.identityStore.GetLatestLink(ctx, tenantID, event.AnonymousID)
	if err != nil {
		return nil, fmt.Errorf("identity lookup failed: %w", err)
	}

	// Anonymous event: inherit the most recent known link, if any, so
	// pre-login activity stays connected to the user after they identify.
	if event.UserID == "" {
		resolved := &models.ResolvedIdentity{AnonymousID: event.AnonymousID}
		if latest != nil {
			resolved.UserID = latest.UserID
			metricResolutionsTotal.WithLabelValues(resolutionInherited).Inc()
		} else {
			metricResolutionsTotal.WithLabelValues(resolutionAnonymous).Inc()
		}
		return resolved, nil
	}

	// The exact link already exists: nothing to record.
	if latest != nil && latest.UserID == event.UserID {
		metricResolutionsTotal.WithLabelValues(resolutionExisting).Inc()
		return &models.ResolvedIdentity{
			AnonymousID: event.AnonymousID,
			UserID:      event.UserID,
		}, nil
	}

	linkSource := models.LinkSourceInferred
	if event.IsIdentify() {
		linkSource = models.LinkSourceIdentify
	}

	identity := &models.Identity{
		TenantID:    tenantID,
		AnonymousID: event.AnonymousID,
		UserID:      event.UserID,
		LinkSource:  linkSource,
		LinkedAt:    event.Timestamp,
	}
	if event.IsIdentify() {
		identity.Traits = event.Traits
	}

	// Get-or-create on (tenant, anonymousId, userId, linkSource): a
	// concurrent writer landing first makes this a no-op, not an error.
	created, err := r.identityStore.Insert(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("identity link insert failed: %w", err)
	}

	if created {
		metricLinksCreatedTotal.WithLabelValues(string(linkSource)).Inc()
		loggers.Ctx(ctx).Debug().
			Str(loggers.FieldTenantID, tenantID).
			Str("link_source", string(linkSource)).
			Msg("identity link created")
	}

	return &models.ResolvedIdentity{
		AnonymousID: event.AnonymousID,
		UserID:      event.UserID,
		IsNewLink:   created,
	}, nil
}
