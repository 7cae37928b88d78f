package configs

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Geo       GeoConfig       `mapstructure:"geo"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
	BatchTimeout      int `mapstructure:"batch_timeout" validate:"required,min=1"`       // seconds, overall per-batch deadline
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	DSN             string `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"required,min=1"` // seconds
}

// PipelineConfig holds capture pipeline configuration.
type PipelineConfig struct {
	MaxBatchSize             int      `mapstructure:"max_batch_size" validate:"required,min=1,max=10000"`
	SessionInactivityMinutes int      `mapstructure:"session_inactivity_minutes" validate:"required,min=1"`
	ConversionEvents         []string `mapstructure:"conversion_events"`
}

// GeoConfig holds geo-IP lookup configuration. An empty endpoint disables
// lookups; events then carry empty geo fields.
type GeoConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	TimeoutMs int    `mapstructure:"timeout_ms" validate:"omitempty,min=1"`
}

// RateLimitConfig holds per-write-key intake rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,min=0"`
	Burst             int     `mapstructure:"burst" validate:"required,min=1"`
}
