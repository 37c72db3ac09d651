package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nabcos/acd-cli/internal/config"
	"github.com/nabcos/acd-cli/internal/logger"
)

// NewConnectPostgres opens a PostgreSQL-backed cache. Useful when several
// machines share one mirror of the remote hierarchy; the schema and queries
// are identical to the SQLite backend.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(4)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		errorClassificator: NewPostgresErrorClassifier(),
		dialect:            "postgres",
		logger:             log,
	}

	return db, nil
}

// Connect picks the backend by cfg.Driver. SQLite is the default; "pgx"
// selects the PostgreSQL backend.
func Connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.Driver == "pgx" {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}
