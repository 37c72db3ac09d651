package store

import (
	"database/sql"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/migrations"
)

// DB is the shared store handle used by every repository in this package.
// It wraps the raw connection together with the driver-specific error
// classifier and the goose dialect the schema was written for.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	dialect            string
	logger             *logger.Logger
}

// Migrate brings the cache schema up to date via the embedded goose
// migrations, using the dialect of the connected backend.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return OtherError
	}
	return db.errorClassificator.Classify(err)
}
