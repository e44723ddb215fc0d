package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/constants"
	"net/url"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// New opens the history database. An empty DB_PATH disables history and
// yields a nil *sql.DB.
func New(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	if cfg.DBPath == "" {
		logger.Info().Msg("DB_PATH empty, mmr history disabled")
		return nil, nil
	}

	db, err := Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
	return db, nil
}

// dsn carries the pragmas as go-sqlite3 connection parameters so every
// pooled connection gets them, not just the first.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_busy_timeout", strconv.Itoa(constants.DBBusyTimeoutMillis))
	params.Set("_txlock", "immediate")
	return "file:" + path + "?" + params.Encode()
}

// Open connects to the sqlite file at path and brings its schema up to date.
func Open(path string, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("component", "database").Str("path", path).Logger()

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		log.Error().Err(err).Msg("database unreachable")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	version, err := migrate(ctx, db)
	if err != nil {
		db.Close()
		log.Error().Err(err).Msg("failed to run migrations")
		return nil, err
	}

	log.Info().Int64("schema_version", version).Msg("history database ready")
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) (int64, error) {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return 0, fmt.Errorf("failed to run goose migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
