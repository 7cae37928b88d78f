package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"event-analytics/internal/models"
)

// IdentityStore persists the append-only anonymous→user link history.
// Uniqueness on (tenant, anonymousId, userId, linkSource) is the sole
// correctness mechanism against concurrent duplicate writers: a conflict
// means another writer already recorded the link, which is success.
//
//go:generate mockgen -source=identity_store.go -destination=./mocks/identity_store_mock.go -package=mocks
type IdentityStore interface {
	// GetLatestLink returns the most recent link for the visitor, or
	// (nil, nil) when the visitor has never been identified.
	GetLatestLink(ctx context.Context, tenantID, anonymousID string) (*models.Identity, error)
	// Insert records a new link. It returns created=false when an
	// identical link already exists.
	Insert(ctx context.Context, identity *models.Identity) (created bool, err error)
}

type identityStore struct {
	db *sql.DB
}

func NewIdentityStore(db *sql.DB) IdentityStore {
	return &identityStore{db: db}
}

func (s *identityStore) GetLatestLink(ctx context.Context, tenantID, anonymousID string) (*models.Identity, error) {
	const query = `
		SELECT tenant_id, anonymous_id, user_id, link_source, linked_at, traits
		FROM identities
		WHERE tenant_id = $1 AND anonymous_id = $2
		ORDER BY linked_at DESC, id DESC
		LIMIT 1`

	var identity models.Identity
	var traitsJSON []byte
	err := s.db.QueryRowContext(ctx, query, tenantID, anonymousID).Scan(
		&identity.TenantID,
		&identity.AnonymousID,
		&identity.UserID,
		&identity.LinkSource,
		&identity.LinkedAt,
		&traitsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest identity link: %w", err)
	}

	if len(traitsJSON) > 0 {
		if err := json.Unmarshal(traitsJSON, &identity.Traits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal identity traits: %w", err)
		}
	}
	return &identity, nil
}

func (s *identityStore) Insert(ctx context.Context, identity *models.Identity) (bool, error) {
	const query = `
		INSERT INTO identities (tenant_id, anonymous_id, user_id, link_source, linked_at, traits)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, anonymous_id, user_id, link_source) DO NOTHING`

	traitsJSON, err := marshalJSONMap(identity.Traits)
	if err != nil {
		return false, fmt.Errorf("failed to marshal identity traits: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query,
		identity.TenantID,
		identity.AnonymousID,
		identity.UserID,
		identity.LinkSource,
		identity.LinkedAt,
		traitsJSON,
	)
	if err != nil {
		// A unique violation can still surface under stricter isolation
		// levels; it means another writer won the race.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert identity link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return rows == 1, nil
}

// marshalJSONMap renders a map as JSON for a jsonb column, passing NULL for
// an absent map.
func marshalJSONMap(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return data, nil
}
