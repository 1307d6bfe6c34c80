package sqlexecutor

import (
	"regexp"
	"time"
)

const (
	// DialectPostgres renders SQL for PostgreSQL. It is the default.
	DialectPostgres = "postgres"

	// DialectSQLite3 renders SQL for SQLite.
	DialectSQLite3 = "sqlite3"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Logger interface for SQL logging and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting query durations and database errors.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring an Executor.
type Option func(*Executor) error

// WithTableName sets the probed table. It must be a plain identifier, because it ends up in DDL.
func WithTableName(tableName string) Option {
	return func(e *Executor) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		if !identifierPattern.MatchString(tableName) {
			return ErrInvalidTableName
		}

		e.tableName = tableName

		return nil
	}
}

// WithDialect sets the SQL dialect, DialectPostgres or DialectSQLite3.
func WithDialect(dialect string) Option {
	return func(e *Executor) error {
		switch dialect {
		case DialectPostgres, DialectSQLite3:
			e.dialect = dialect
			return nil
		default:
			return ErrUnsupportedDialect
		}
	}
}

// WithLogger sets the logger for the Executor.
//
// Debug level: every probe query with its duration and row count
// Error level: failures to build, run or scan a probe query.
func WithLogger(logger Logger) Option {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector, which receives query durations and database error counts.
func WithMetrics(collector MetricsCollector) Option {
	return func(e *Executor) error {
		e.metricsCollector = collector
		return nil
	}
}
