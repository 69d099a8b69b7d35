// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/namgiho96/giho-blog/internal/config"
	"github.com/namgiho96/giho-blog/internal/middleware"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger sends GORM's output through the application logger. Record-not-found
// is expected on lookups and never logged.
type GormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger logs errors and slow queries.
func NewGormLogger() *GormLogger {
	return &GormLogger{log: middleware.Logger, level: logger.Warn, slow: slowQueryThreshold}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data...)
}

func (l *GormLogger) printf(ctx context.Context, threshold logger.LogLevel, lvl slog.Level, msg string, data ...interface{}) {
	if l.level >= threshold {
		l.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		lvl, msg = slog.LevelError, "query failed"
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "slow query"
	case l.level >= logger.Info:
		lvl, msg = slog.LevelDebug, "query"
	default:
		return
	}

	sql, rows := fc()
	attrs := []any{slog.String("sql", sql), slog.Int64("rows", rows), slog.Duration("elapsed", elapsed)}
	if lvl == slog.LevelError {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.Log(ctx, lvl, msg, attrs...)
}

func buildDSN(host, port string, cfg *config.Config) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, cfg.DBUser, cfg.DBPassword, cfg.DBName, sslMode,
	)
}

func open(dsn string) (*gorm.DB, error) {
	pgxConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}
	sqlDB := stdlib.OpenDB(*pgxConfig)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOptions controls what Connect does after the connection is up.
type ConnectOptions struct {
	// ApplySchema runs AutoMigrate on the persistent models.
	ApplySchema bool
}

// Connect opens the primary database connection. Outside production the schema is
// kept current with AutoMigrate; production relies on the SQL migrations.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	return ConnectWithOptions(cfg, ConnectOptions{ApplySchema: !cfg.IsProduction()})
}

// ConnectWithOptions opens the primary database connection and applies opts.
// The migrate command connects with ApplySchema off so the SQL migrations own the schema.
func ConnectWithOptions(cfg *config.Config, opts ConnectOptions) (*gorm.DB, error) {
	db, err := open(buildDSN(cfg.DBHost, cfg.DBPort, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}

	middleware.Logger.Info("Database connected successfully")

	if err := applySchema(db, opts); err != nil {
		return nil, err
	}
	return db, nil
}

func applySchema(db *gorm.DB, opts ConnectOptions) error {
	if !opts.ApplySchema {
		return nil
	}
	if err := db.AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	middleware.Logger.Info("Database migration completed")
	return nil
}

// ConnectReplica opens the read replica when one is configured. It returns nil, nil otherwise.
func ConnectReplica(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBReadHost == "" {
		return nil, nil
	}
	db, err := open(buildDSN(cfg.DBReadHost, cfg.DBReadPort, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to read replica: %w", err)
	}
	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}
	middleware.Logger.Info("Read replica connected", slog.String("host", cfg.DBReadHost))
	return db, nil
}

func configurePool(db *gorm.DB, cfg *config.Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMinutes) * time.Minute)
	}
	return nil
}

// Ping checks that the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
