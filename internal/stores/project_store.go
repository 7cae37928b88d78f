package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-analytics/internal/models"

	"github.com/lib/pq"
)

// ProjectStore resolves write keys to projects. Projects are created and
// managed outside the pipeline; this store is read-only.
//
//go:generate mockgen -source=project_store.go -destination=./mocks/project_store_mock.go -package=mocks
type ProjectStore interface {
	// GetByWriteKey returns the project owning the write key, or
	// ErrProjectNotFound when the key is unknown.
	GetByWriteKey(ctx context.Context, writeKey string) (*models.Project, error)
}

type projectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) ProjectStore {
	return &projectStore{db: db}
}

func (s *projectStore) GetByWriteKey(ctx context.Context, writeKey string) (*models.Project, error) {
	const query = `
		SELECT project_id, tenant_id, name, write_key, allowed_origins
		FROM projects
		WHERE write_key = $1`

	var project models.Project
	var origins pq.StringArray
	err := s.db.QueryRowContext(ctx, query, writeKey).Scan(
		&project.ProjectID,
		&project.TenantID,
		&project.Name,
		&project.WriteKey,
		&origins,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by write key: %w", err)
	}

	project.AllowedOrigins = origins
	return &project, nil
}
