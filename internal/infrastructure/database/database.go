package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// TranscriptsTable is the fallback store table
const TranscriptsTable = "transcripts"

//go:embed migrations
var migrationsFS embed.FS

// Dialect names as understood by sql-migrate
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// NewDB opens the fallback database, retrying with exponential backoff until
// DB_CONNECT_TIMEOUT elapses.
func NewDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	var db *gorm.DB
	connect := func() error {
		opened, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := opened.DB()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to get database object: %w", err))
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		db = opened
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.Database.ConnectTimeout

	notify := func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying",
			zap.String("driver", cfg.Database.Driver),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}
	if err := backoff.RetryNotify(connect, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

func newDialector(cfg *config.Config) (gorm.Dialector, error) {
	dsn := cfg.GetDatabaseDSN()
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Dialect returns the sql-migrate dialect of an open connection
func Dialect(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return DialectPostgres
	}
	return DialectSQLite
}

// Migrate applies the embedded migrations for the connection's dialect and then
// adds columns that legacy tables are missing.
func Migrate(db *gorm.DB, log *zap.Logger) (int, error) {
	dialect := Dialect(db)
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations/" + dialect,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate up: %w", err)
	}

	n, err := migrate.Exec(sqlDB, dialect, source, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if err := EnsureColumns(db); err != nil {
		return n, err
	}

	log.Info("migrations applied", zap.String("dialect", dialect), zap.Int("count", n))
	return n, nil
}

// EnsureColumns adds user_id and language to a transcripts table created before they existed.
// An existing user_id column keeps whatever type it has.
func EnsureColumns(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasTable(TranscriptsTable) {
		return fmt.Errorf("table %s does not exist", TranscriptsTable)
	}
	if !m.HasColumn(TranscriptsTable, "user_id") {
		if err := db.Exec("ALTER TABLE transcripts ADD COLUMN user_id TEXT").Error; err != nil {
			return fmt.Errorf("failed to add user_id column: %w", err)
		}
	}
	if !m.HasColumn(TranscriptsTable, "language") {
		if err := db.Exec("ALTER TABLE transcripts ADD COLUMN language TEXT NOT NULL DEFAULT 'en'").Error; err != nil {
			return fmt.Errorf("failed to add language column: %w", err)
		}
	}
	return nil
}

// ColumnType returns the lower-cased database type name of a column
func ColumnType(db *gorm.DB, table, column string) (string, error) {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return "", fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	for _, ct := range types {
		if strings.EqualFold(ct.Name(), column) {
			return strings.ToLower(ct.DatabaseTypeName()), nil
		}
	}
	return "", fmt.Errorf("column %s.%s not found", table, column)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
