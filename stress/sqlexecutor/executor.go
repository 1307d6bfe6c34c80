package sqlexecutor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/querycache-stress-go/stress/sqlexecutor/internal/adapters"
)

const (
	// DefaultTableName is the table probed when WithTableName is not used.
	DefaultTableName = "person"

	// DefaultProbePredicate compares a column with a COALESCE of itself and then with the token.
	DefaultProbePredicate = "name = COALESCE(name, 'x') AND name = ?"

	probePlaceholder       = "?"
	colID                  = "id"
	colName                = "name"
	createTableStatement   = "CREATE TABLE IF NOT EXISTS %s (id INT PRIMARY KEY, name VARCHAR(255))"
	metricQueryDuration    = "querycache_sql_query_duration_seconds"
	metricDatabaseErrors   = "querycache_sql_errors_total"
	logMsgBuildQueryFailed = "failed to build probe query"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgSchemaFailed     = "failed to prepare schema"
	logMsgSchemaPrepared   = "schema prepared"
	logMsgSQLExecuted      = "executed probe query"
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrTable           = "table"
	logAttrRowCount        = "row_count"
	logAttrDurationMS      = "duration_ms"
	labelStage             = "stage"
	labelStatus            = "status"
	stageBuild             = "build"
	stageQuery             = "query"
	stageScan              = "scan"
	stageSchema            = "schema"
	statusSuccess          = "success"
	statusError            = "error"
)

// Executor runs the probe query through one of the supported database connection types.
// It is safe for concurrent use by as many workers as the underlying pool allows.
type Executor struct {
	db               adapters.DBAdapter
	tableName        string
	dialect          string
	logger           Logger
	metricsCollector MetricsCollector
}

// NewExecutorFromPGXPool creates a new Executor using a pgx Pool with optional configuration.
func NewExecutorFromPGXPool(db *pgxpool.Pool, options ...Option) (Executor, error) {
	if db == nil {
		return Executor{}, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewPGXAdapter(db), options...)
}

// NewExecutorFromSQLDB creates a new Executor using a sql.DB with optional configuration.
// Use WithDialect(DialectSQLite3) when the sql.DB was opened with the sqlite3 driver.
func NewExecutorFromSQLDB(db *sql.DB, options ...Option) (Executor, error) {
	if db == nil {
		return Executor{}, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLAdapter(db), options...)
}

// NewExecutorFromSQLX creates a new Executor using a sqlx.DB with optional configuration.
func NewExecutorFromSQLX(db *sqlx.DB, options ...Option) (Executor, error) {
	if db == nil {
		return Executor{}, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLXAdapter(db), options...)
}

func newExecutor(db adapters.DBAdapter, options ...Option) (Executor, error) {
	e := Executor{
		db:        db,
		tableName: DefaultTableName,
		dialect:   DialectPostgres,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Executor{}, err
		}
	}

	return e, nil
}

// TableName returns the probed table.
func (e Executor) TableName() string {
	return e.tableName
}

// Execute renders the probe query for predicate and token, runs it and returns the number of rows it produced.
// Execute implements stress.QueryExecutor.
func (e Executor) Execute(ctx context.Context, predicate string, token string) (int, error) {
	sqlQuery, buildErr := e.BuildProbeQuery(predicate, token)
	if buildErr != nil {
		e.countError(stageBuild)
		if e.logger != nil {
			e.logger.Error(logMsgBuildQueryFailed, logAttrError, buildErr.Error())
		}

		return 0, buildErr
	}

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	if queryErr != nil {
		e.recordQueryDuration(time.Since(start), statusError)
		e.countError(stageQuery)
		if e.logger != nil {
			e.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, errors.Join(ErrQueryingFailed, queryErr)
	}
	defer e.closeRows(rows)

	rowCount, scanErr := e.countRows(rows)
	duration := time.Since(start)
	if scanErr != nil {
		e.recordQueryDuration(duration, statusError)
		e.countError(stageScan)
		if e.logger != nil {
			e.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, scanErr
	}

	e.recordQueryDuration(duration, statusSuccess)
	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted,
			logAttrQuery, sqlQuery,
			logAttrRowCount, rowCount,
			logAttrDurationMS, toMilliseconds(duration))
	}

	return rowCount, nil
}

// BuildProbeQuery renders the SELECT for one attempt. The token is interpolated as a string literal
// in place of the single ? in predicate, so the SQL text differs for every token.
func (e Executor) BuildProbeQuery(predicate string, token string) (string, error) {
	if strings.Count(predicate, probePlaceholder) != 1 {
		return "", ErrInvalidProbePredicate
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(e.dialect).
		From(goqu.T(e.tableName)).
		Select(goqu.C(colID), goqu.C(colName)).
		Where(goqu.L(predicate, token)).
		ToSQL()

	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// PrepareSchema creates the probed table if it does not exist yet.
func (e Executor) PrepareSchema(ctx context.Context) error {
	statement := fmt.Sprintf(createTableStatement, e.tableName)

	if _, execErr := e.db.Exec(ctx, statement); execErr != nil {
		e.countError(stageSchema)
		if e.logger != nil {
			e.logger.Error(logMsgSchemaFailed, logAttrError, execErr.Error(), logAttrTable, e.tableName)
		}

		return errors.Join(ErrPreparingSchemaFailed, execErr)
	}

	if e.logger != nil {
		e.logger.Info(logMsgSchemaPrepared, logAttrTable, e.tableName)
	}

	return nil
}

func (e Executor) countRows(rows adapters.DBRows) (int, error) {
	var (
		id   sql.NullInt64
		name sql.NullString
	)

	rowCount := 0
	for rows.Next() {
		if scanErr := rows.Scan(&id, &name); scanErr != nil {
			return 0, errors.Join(ErrScanningRowFailed, scanErr)
		}

		rowCount++
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return 0, errors.Join(ErrQueryingFailed, rowsErr)
	}

	return rowCount, nil
}

// closeRows safely closes database rows and logs any errors.
func (e Executor) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if e.logger != nil {
			e.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (e Executor) recordQueryDuration(d time.Duration, status string) {
	if e.metricsCollector != nil {
		e.metricsCollector.RecordDuration(metricQueryDuration, d, map[string]string{labelStatus: status})
	}
}

func (e Executor) countError(stage string) {
	if e.metricsCollector != nil {
		e.metricsCollector.IncrementCounter(metricDatabaseErrors, map[string]string{labelStage: stage})
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
