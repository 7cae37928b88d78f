package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"event-analytics/internal/enrichers"
	internalhttp "event-analytics/internal/http"
	"event-analytics/internal/identities"
	"event-analytics/internal/ingestors"
	"event-analytics/internal/normalizers"
	"event-analytics/internal/sessions"
	"event-analytics/internal/shared/configs"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server
	db        *sql.DB
}

// New creates and initializes a new App instance.
func New(ctx context.Context, config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "event-analytics").
		Logger()

	// Initialize the durable store
	db, err := stores.OpenPostgres(ctx, config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	projectStore := stores.NewProjectStore(db)
	identityStore := stores.NewIdentityStore(db)
	sessionStore := stores.NewSessionStore(db)
	eventStore := stores.NewEventStore(db)

	// Initialize pipeline components
	normalizer := normalizers.NewNormalizer()
	identityResolver := identities.NewIdentityResolver(identityStore)
	sessionAssigner := sessions.NewSessionAssigner(
		sessionStore,
		time.Duration(config.Pipeline.SessionInactivityMinutes)*time.Minute,
		config.Pipeline.ConversionEvents,
	)

	geoResolver := enrichers.NoopGeoResolver()
	if config.Geo.Endpoint != "" {
		geoTimeout := time.Duration(config.Geo.TimeoutMs) * time.Millisecond
		if geoTimeout <= 0 {
			geoTimeout = 250 * time.Millisecond
		}
		geoResolver = enrichers.NewHTTPGeoResolver(config.Geo.Endpoint, geoTimeout)
	}
	enricher := enrichers.NewEnricher(geoResolver)

	ingestionService := ingestors.NewIngestionService(
		projectStore,
		normalizer,
		identityResolver,
		sessionAssigner,
		enricher,
		eventStore,
		config.Pipeline.MaxBatchSize,
	)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(ingestionService, db, config.Server, config.RateLimit, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
		db:        db,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting event-analytics service on port %d (log_level=%s, max_batch_size=%d, session_inactivity=%dm)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Pipeline.MaxBatchSize,
			app.config.Pipeline.SessionInactivityMinutes)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Close the store
	if err := app.db.Close(); err != nil {
		return fmt.Errorf("store close failed: %w", err)
	}
	app.appLogger.Info().Msg("Store closed")

	return nil
}
