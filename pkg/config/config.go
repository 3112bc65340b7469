package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// supabasePlaceholder is the host fragment left in sample .env files
const supabasePlaceholder = "your-project-ref"

// Fallback database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Mismatch policies applied when the fallback rejects a user_id value
const (
	MismatchStrip  = "strip"
	MismatchReject = "reject"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Supabase    SupabaseConfig
	Identity    IdentityConfig
	Persistence PersistenceConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Assembly    AssemblyAIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"5000"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	BodyLimit       string   `envconfig:"BODY_LIMIT" default:"50M"`
}

// DatabaseConfig holds the fallback store configuration
type DatabaseConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"sqlite"` // "postgres" or "sqlite"
	URL        string `envconfig:"DATABASE_URL"`
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       string `envconfig:"DB_PORT" default:"5432"`
	User       string `envconfig:"DB_USER" default:"postgres"`
	Password   string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name       string `envconfig:"DB_NAME" default:"speech_app"`
	SSLMode    string `envconfig:"DB_SSLMODE" default:"disable"`
	SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"transcripts.db"`
	MaxConns   int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns   int    `envconfig:"DB_MIN_CONNS" default:"5"`
	// AutoMigrate applies the embedded sql-migrate migrations at startup
	AutoMigrate    bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"30s"`
	// UserIDColumnType is "auto" (introspected), "text" or "integer"
	UserIDColumnType string `envconfig:"FALLBACK_USER_ID_TYPE" default:"auto"`
}

// SupabaseConfig holds the primary store and identity provider configuration
type SupabaseConfig struct {
	URL            string `envconfig:"SUPABASE_URL"`
	Key            string `envconfig:"SUPABASE_KEY"`
	ServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY"`
	Table          string `envconfig:"SUPABASE_TABLE" default:"transcripts"`
}

// IdentityConfig controls bearer credential resolution
type IdentityConfig struct {
	// AllowClaimed enables unverified decoding of the credential payload
	AllowClaimed bool          `envconfig:"IDENTITY_ALLOW_CLAIMED" default:"true"`
	JWTSecret    string        `envconfig:"SUPABASE_JWT_SECRET"`
	Timeout      time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"5s"`
}

// PersistenceConfig controls the primary/fallback write policy
type PersistenceConfig struct {
	// MismatchPolicy is "strip" (retry without user_id) or "reject"
	MismatchPolicy string        `envconfig:"MISMATCH_POLICY" default:"strip"`
	StoreTimeout   time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
}

// RedisConfig holds Redis configuration for the live session registry
type RedisConfig struct {
	Enabled    bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host       string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port       string        `envconfig:"REDIS_PORT" default:"6379"`
	Password   string        `envconfig:"REDIS_PASSWORD"`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL time.Duration `envconfig:"LIVE_SESSION_TTL" default:"2h"`
}

// StorageConfig holds audio artifact storage configuration
type StorageConfig struct {
	Enabled         bool          `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"speech-to-text"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	Region          string        `envconfig:"STORAGE_REGION" default:"us-east-1"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	URLExpiry       time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"15m"`
}

// AssemblyAIConfig holds transcription provider configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	sections := []interface{}{
		&config.Server,
		&config.Database,
		&config.Supabase,
		&config.Identity,
		&config.Persistence,
		&config.Redis,
		&config.Storage,
		&config.Assembly,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Database.UserIDColumnType {
	case "auto", "text", "integer":
	default:
		return fmt.Errorf("FALLBACK_USER_ID_TYPE must be auto, text or integer, got %q", c.Database.UserIDColumnType)
	}
	switch c.Persistence.MismatchPolicy {
	case MismatchStrip, MismatchReject:
	default:
		return fmt.Errorf("MISMATCH_POLICY must be strip or reject, got %q", c.Persistence.MismatchPolicy)
	}
	if c.Persistence.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.Identity.Timeout <= 0 {
		return fmt.Errorf("IDENTITY_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the fallback database connection string
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Driver == DriverSQLite {
		return c.Database.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// APIKey returns the key used against Supabase, preferring SUPABASE_KEY
func (s SupabaseConfig) APIKey() string {
	if s.Key != "" {
		return s.Key
	}
	return s.ServiceRoleKey
}

// BaseURL returns the trimmed project URL
func (s SupabaseConfig) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(s.URL), "/")
}

// Configured reports whether Supabase can be used. A placeholder URL counts as unconfigured.
func (s SupabaseConfig) Configured() bool {
	url := s.BaseURL()
	if url == "" || s.APIKey() == "" {
		return false
	}
	return !strings.Contains(url, supabasePlaceholder)
}
