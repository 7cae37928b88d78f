package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"event-analytics/internal/shared/configs"

	"github.com/lib/pq"
)

// pq error class for unique constraint violations. Conflicts on unique keys
// are an expected outcome in this pipeline, never a failure.
const pqUniqueViolation = "23505"

// OpenPostgres opens and verifies a PostgreSQL connection pool.
func OpenPostgres(ctx context.Context, cfg configs.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}
