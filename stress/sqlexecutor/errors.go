package sqlexecutor

import "errors"

// ErrNilDatabaseConnection is returned when a nil database connection is provided.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// ErrEmptyTableName is returned when an empty table name is provided.
var ErrEmptyTableName = errors.New("table name must not be empty")

// ErrInvalidTableName is returned when the table name is not a plain SQL identifier.
var ErrInvalidTableName = errors.New("table name must be a plain SQL identifier")

// ErrUnsupportedDialect is returned for SQL dialects the executor cannot render.
var ErrUnsupportedDialect = errors.New("unsupported sql dialect")

// ErrInvalidProbePredicate is returned when a probe predicate does not contain exactly one placeholder.
var ErrInvalidProbePredicate = errors.New("probe predicate must contain exactly one ? placeholder")

// ErrBuildingQueryFailed is returned when the probe query cannot be rendered.
var ErrBuildingQueryFailed = errors.New("building the probe query failed")

// ErrQueryingFailed is returned when the database rejects the probe query.
var ErrQueryingFailed = errors.New("querying the database failed")

// ErrScanningRowFailed is returned when a result row cannot be scanned.
var ErrScanningRowFailed = errors.New("scanning db row failed")

// ErrPreparingSchemaFailed is returned when the probe table cannot be created.
var ErrPreparingSchemaFailed = errors.New("preparing the schema failed")
