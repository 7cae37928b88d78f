package identities_test

import (
	"context"
	"testing"
	"time"

	"event-analytics/internal/identities"
	"event-analytics/internal/models"
	storemocks "event-analytics/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const tenantID = "tenant1"

var linkedAt = time.Date(2025, 11, 2, 9, 14, 2, 0, time.UTC)

func trackEvent(anonymousID, userID string) *models.NormalizedEvent {
	return &models.NormalizedEvent{
		EventName:   "page_viewed",
		EventType:   models.EventTypeTrack,
		Timestamp:   linkedAt,
		AnonymousID: anonymousID,
		UserID:      userID,
	}
}

func TestResolve_AnonymousWithoutLink(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identityStore := storemocks.NewMockIdentityStore(ctrl)
	identityStore.EXPECT().
		GetLatestLink(gomock.Any(), tenantID, "anon-1").
		Return(nil, nil)

	resolver := identities.NewIdentityResolver(identityStore)

	resolved, err := resolver.Resolve(context.Background(), tenantID, trackEvent("anon-1", ""))

	require.NoError(t, err)
	assert.Equal(t, "anon-1", resolved.AnonymousID)
	assert.Empty(t, resolved.UserID)
	assert.False(t, resolved.IsNewLink)
}

func TestResolve_AnonymousInheritsLatestLink(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identityStore := storemocks.NewMockIdentityStore(ctrl)
	identityStore.EXPECT().
		GetLatestLink(gomock.Any(), tenantID, "anon-1").
		Return(&models.Identity{
			TenantID:    tenantID,
			AnonymousID: "anon-1",
			UserID:      "user-42",
			LinkSource:  models.LinkSourceIdentify,
		}, nil)

	resolver := identities.NewIdentityResolver(identityStore)

	resolved, err := resolver.Resolve(context.Background(), tenantID, trackEvent("anon-1", ""))

	require.NoError(t, err)
	assert.Equal(t, "user-42", resolved.UserID)
	assert.False(t, resolved.IsNewLink)
}

func TestResolve_ExistingLinkIsNoOp(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identityStore := storemocks.NewMockIdentityStore(ctrl)
	identityStore.EXPECT().
		GetLatestLink(gomock.Any(), tenantID, "anon-1").
		Return(&models.Identity{
			TenantID:    tenantID,
			AnonymousID: "anon-1",
			UserID:      "user-42",
		}, nil)

	resolver := identities.NewIdentityResolver(identityStore)

	resolved, err := resolver.Resolve(context.Background(), tenantID, trackEvent("anon-1", "user-42"))

	require.NoError(t, err)
	assert.Equal(t, "user-42", resolved.UserID)
	assert.False(t, resolved.IsNewLink)
}

func TestResolve_CreatesLink(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name           string
		eventType      string
		traits         map[string]any
		latest         *models.Identity
		wantLinkSource models.LinkSource
		wantTraits     map[string]any
	}{
		{
			name:           "identify event records identify link with traits",
			eventType:      models.EventTypeIdentify,
			traits:         map[string]any{"plan": "pro"},
			latest:         nil,
			wantLinkSource: models.LinkSourceIdentify,
			wantTraits:     map[string]any{"plan": "pro"},
		},
		{
			name:           "track event with user ID records inferred link",
			eventType:      models.EventTypeTrack,
			traits:         map[string]any{"plan": "pro"},
			latest:         nil,
			wantLinkSource: models.LinkSourceInferred,
			wantTraits:     nil,
		},
		{
			name:      "new user supersedes older link",
			eventType: models.EventTypeIdentify,
			latest: &models.Identity{
				TenantID:    tenantID,
				AnonymousID: "anon-1",
				UserID:      "user-41",
			},
			wantLinkSource: models.LinkSourceIdentify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := trackEvent("anon-1", "user-42")
			event.EventType = tt.eventType
			event.Traits = tt.traits

			var inserted *models.Identity
			identityStore := storemocks.NewMockIdentityStore(ctrl)
			identityStore.EXPECT().
				GetLatestLink(gomock.Any(), tenantID, "anon-1").
				Return(tt.latest, nil)
			identityStore.EXPECT().
				Insert(gomock.Any(), gomock.Any()).
				Do(func(ctx context.Context, identity *models.Identity) {
					inserted = identity
				}).
				Return(true, nil)

			resolver := identities.NewIdentityResolver(identityStore)

			resolved, err := resolver.Resolve(context.Background(), tenantID, event)

			require.NoError(t, err)
			assert.True(t, resolved.IsNewLink)
			assert.Equal(t, "user-42", resolved.UserID)

			require.NotNil(t, inserted)
			assert.Equal(t, tenantID, inserted.TenantID)
			assert.Equal(t, tt.wantLinkSource, inserted.LinkSource)
			assert.Equal(t, linkedAt, inserted.LinkedAt)
			assert.Equal(t, tt.wantTraits, inserted.Traits)
		})
	}
}

func TestResolve_ConcurrentWriterWinsRace(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identityStore := storemocks.NewMockIdentityStore(ctrl)
	identityStore.EXPECT().
		GetLatestLink(gomock.Any(), tenantID, "anon-1").
		Return(nil, nil)
	identityStore.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(false, nil)

	resolver := identities.NewIdentityResolver(identityStore)

	resolved, err := resolver.Resolve(context.Background(), tenantID, trackEvent("anon-1", "user-42"))

	require.NoError(t, err)
	assert.Equal(t, "user-42", resolved.UserID)
	assert.False(t, resolved.IsNewLink)
}

func TestResolve_LookupFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identityStore := storemocks.NewMockIdentityStore(ctrl)
	identityStore.EXPECT().
		GetLatestLink(gomock.Any(), tenantID, "anon-1").
		Return(nil, assert.AnError)

	resolver := identities.NewIdentityResolver(identityStore)

	resolved, err := resolver.Resolve(context.Background(), tenantID, trackEvent("anon-1", ""))

	require.Error(t, err)
	assert.Nil(t, resolved)
}
