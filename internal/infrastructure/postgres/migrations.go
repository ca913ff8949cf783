package postgres

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/marketplace-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator abre una conexión database/sql (driver pgx) y prepara las migraciones embebidas.
// El llamador debe cerrar el Migrate devuelto.
func NewMigrator(dbURL string, log *logger.Logger) (*migrate.Migrate, error) {
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("abrir DB para migraciones: %w", err)
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("driver de migraciones: %w", err)
	}
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("fuente de migraciones: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("inicializar migraciones: %w", err)
	}
	if log != nil {
		m.Log = migrateLogger{log: log.Named("migrate")}
	}
	return m, nil
}

// RunMigrations aplica todas las migraciones pendientes.
func RunMigrations(dbURL string, log *logger.Logger) error {
	m, err := NewMigrator(dbURL, log)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// RollbackAll revierte todas las migraciones (versión 0).
func RollbackAll(dbURL string, log *logger.Logger) error {
	m, err := NewMigrator(dbURL, log)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// migrateLogger adapta el logger de la app a migrate.Logger.
type migrateLogger struct {
	log *logger.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Info().Msgf(format, v...)
}

func (l migrateLogger) Verbose() bool { return false }
