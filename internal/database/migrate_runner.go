package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/namgiho96/giho-blog/internal/middleware"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MigrationStore records which migrations ran.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, version int, name, sql string) error
	RemoveMigration(ctx context.Context, version int) error
}

// MigrationLog is one row of migration_logs.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string { return "migration_logs" }

const createMigrationLogsSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// undefinedTable is the Postgres SQLSTATE for a missing relation.
const undefinedTable = "42P01"

type gormMigrationStore struct {
	db *gorm.DB
}

func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &gormMigrationStore{db: db}
}

// GetAppliedMigrations lists applied versions in ascending order. A database
// that never ran a migration has none.
func (s *gormMigrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	switch {
	case err == nil:
		return versions, nil
	case isMissingTableError(err):
		return []int{}, nil
	default:
		return nil, fmt.Errorf("read migration log: %w", err)
	}
}

func isMissingTableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedTable
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}

// ApplyMigration runs sql and logs the version atomically.
func (s *gormMigrationStore) ApplyMigration(ctx context.Context, version int, name, sql string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("migration %06d_%s: %w", version, name, err)
		}
		return tx.Create(&MigrationLog{Version: version, Name: name}).Error
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("migration applied", slog.Int("version", version), slog.String("name", name))
	return nil
}

func (s *gormMigrationStore) RemoveMigration(ctx context.Context, version int) error {
	if err := s.db.WithContext(ctx).Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil {
		return fmt.Errorf("remove migration log %06d: %w", version, err)
	}
	return nil
}

// RunMigrations applies every registered migration the database has not seen.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(createMigrationLogsSQL).Error; err != nil {
		return fmt.Errorf("create migration_logs: %w", err)
	}

	store := NewMigrationStore(db)
	pending, err := PendingMigrations(ctx, store, migrations)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := store.ApplyMigration(ctx, m.Version, m.Name, m.UpScript); err != nil {
			return err
		}
	}
	if len(pending) == 0 {
		middleware.Logger.Info("schema up to date", slog.Int("migrations", len(migrations)))
	}
	return nil
}

// PendingMigrations returns the registered migrations not yet applied, in order.
// Applied versions unknown to this binary are an error: the schema is ahead of the code.
func PendingMigrations(ctx context.Context, store MigrationStore, registered []Migration) ([]Migration, error) {
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for _, v := range applied {
		if !slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == v }) {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, fmt.Errorf("migration_logs has versions this build does not know: %s",
			strings.Join(unknown, ", "))
	}

	var pending []Migration
	for _, m := range registered {
		if !slices.Contains(applied, m.Version) {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// RollbackMigration runs the down script of an applied migration and forgets it.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("rolling back migration", slog.Int("version", version), slog.String("name", m.Name))
	if err := db.WithContext(ctx).Exec(m.DownScript).Error; err != nil {
		return fmt.Errorf("rollback %s: %w", m.String(), err)
	}
	return store.RemoveMigration(ctx, version)
}
