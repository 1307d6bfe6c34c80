package cli

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/querycache-stress-go/config"
	"github.com/AntonStoeckl/querycache-stress-go/stress"
	"github.com/AntonStoeckl/querycache-stress-go/stress/sqlexecutor"
)

// probeExecutor is a stress.QueryExecutor that can create the table it probes.
type probeExecutor interface {
	stress.QueryExecutor
	PrepareSchema(ctx context.Context) error
}

// openExecutor opens the database for cfg.Driver and builds the SQL executor on it.
// The returned close function releases the database connection.
func openExecutor(
	ctx context.Context,
	cfg config.RunConfig,
	dsn string,
	poolSize int,
	options ...sqlexecutor.Option,
) (probeExecutor, func() error, error) {

	tableOption := sqlexecutor.WithTableName(cfg.Table)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := config.SQLiteDB(ctx, dsn, poolSize)
		if err != nil {
			return nil, nil, err
		}

		allOptions := append([]sqlexecutor.Option{tableOption, sqlexecutor.WithDialect(sqlexecutor.DialectSQLite3)}, options...)
		executor, err := sqlexecutor.NewExecutorFromSQLDB(db, allOptions...)

		return closeOnError(executor, db.Close, err)

	case config.DriverPGX:
		pool, err := config.PostgresPGXPool(ctx, dsn, int32(poolSize)) //nolint:gosec // bounded by stress.HardMaxWorkers
		if err != nil {
			return nil, nil, err
		}

		closePool := func() error {
			pool.Close()
			return nil
		}

		executor, err := sqlexecutor.NewExecutorFromPGXPool(pool, append([]sqlexecutor.Option{tableOption}, options...)...)

		return closeOnError(executor, closePool, err)

	case config.DriverPostgres:
		db, err := config.PostgresSQLDB(ctx, dsn, poolSize)
		if err != nil {
			return nil, nil, err
		}

		executor, err := sqlexecutor.NewExecutorFromSQLDB(db, append([]sqlexecutor.Option{tableOption}, options...)...)

		return closeOnError(executor, db.Close, err)

	case config.DriverSQLX:
		db, err := config.PostgresSQLX(ctx, dsn, poolSize)
		if err != nil {
			return nil, nil, err
		}

		executor, err := sqlexecutor.NewExecutorFromSQLX(db, append([]sqlexecutor.Option{tableOption}, options...)...)

		return closeOnError(executor, db.Close, err)

	default:
		return nil, nil, config.ErrUnsupportedDriver
	}
}

func closeOnError(executor sqlexecutor.Executor, closeDB func() error, err error) (probeExecutor, func() error, error) {
	if err != nil {
		return nil, nil, errors.Join(err, closeDB())
	}

	return executor, closeDB, nil
}
