package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrorClassification is the result type returned by [ErrorClassificator.Classify].
// It sorts failed database operations into the classes the upsert soft-fail
// policy cares about: integrity-constraint violations (guarded by the folder
// path), data/value errors (guarded by the file path), and everything else.
type ErrorClassification int

const (
	// OtherError is the default classification for unrecognised errors.
	// Operations that hit one propagate it to the caller.
	OtherError ErrorClassification = iota

	// ConstraintViolation covers integrity-constraint failures such as a
	// duplicate primary key. The folder upsert path rolls back its batch and
	// continues when it sees one.
	ConstraintViolation

	// DataError covers value-level failures (bad data shape, out-of-range
	// values). The file upsert path rolls back its batch and continues when
	// it sees one.
	DataError
)

// ErrorClassificator maps driver-specific errors onto the classification the
// repositories act upon. Each backend driver ships its own implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// SQLiteErrorClassifier implements [ErrorClassificator] for the sqlite3
// driver by inspecting the sqlite3.Error result code.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier] ready for use.
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator]. If err is nil or is not a sqlite3
// driver error, [OtherError] is returned.
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return OtherError
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return OtherError
	}

	switch sqliteErr.Code {
	case sqlite3.ErrConstraint:
		return ConstraintViolation
	case sqlite3.ErrMismatch, sqlite3.ErrTooBig, sqlite3.ErrRange:
		return DataError
	}

	return OtherError
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver and maps it
// to a [ErrorClassification] value.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. It attempts to unwrap err as a
// *pgconn.PgError and delegates to [ClassifyPgError]. If err is nil or is not
// a PostgreSQL driver error, [OtherError] is returned.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return OtherError
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	return OtherError
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] based on
// the PostgreSQL error code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
//
// ConstraintViolation codes:
//   - Class 23: integrity constraint violations
//
// DataError codes:
//   - Class 22: data exceptions
//
// Any code not listed above is classified as [OtherError].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	// Class 23: integrity constraint violations
	case pgerrcode.IntegrityConstraintViolation,
		pgerrcode.RestrictViolation,
		pgerrcode.NotNullViolation,
		pgerrcode.ForeignKeyViolation,
		pgerrcode.UniqueViolation,
		pgerrcode.CheckViolation:
		return ConstraintViolation

	// Class 22: data exceptions
	case pgerrcode.DataException,
		pgerrcode.InvalidTextRepresentation,
		pgerrcode.NumericValueOutOfRange,
		pgerrcode.NullValueNotAllowedDataException:
		return DataError
	}

	return OtherError
}
