package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/querycache-stress-go/stress/sqlexecutor"
)

const (
	// DriverSQLite runs against an in-memory SQLite database through database/sql.
	DriverSQLite = "sqlite"

	// DriverPGX runs against PostgreSQL through a pgxpool.Pool.
	DriverPGX = "pgx"

	// DriverPostgres runs against PostgreSQL through database/sql and lib/pq.
	DriverPostgres = "postgres"

	// DriverSQLX runs against PostgreSQL through sqlx and lib/pq.
	DriverSQLX = "sqlx"

	// EnvDriver overrides RunConfig.Driver.
	EnvDriver = "QUERYCACHE_DRIVER"

	// EnvDSN overrides RunConfig.DSN.
	EnvDSN = "QUERYCACHE_DSN"

	defaultAttempts = 100
)

// RunConfig holds the parameters of one stress run.
type RunConfig struct {
	Driver         string        `yaml:"driver"`
	DSN            string        `yaml:"dsn"`
	Workers        int           `yaml:"workers"`
	Attempts       int           `yaml:"attempts"`
	MaxWorkers     int           `yaml:"max_workers"`
	Query          string        `yaml:"query"`
	Table          string        `yaml:"table"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// DefaultRunConfig returns one worker per available CPU, 100 attempts each,
// against an in-memory SQLite database.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Driver:   DriverSQLite,
		Workers:  runtime.GOMAXPROCS(0),
		Attempts: defaultAttempts,
		Query:    sqlexecutor.DefaultProbePredicate,
		Table:    sqlexecutor.DefaultTableName,
	}
}

// LoadRunConfig reads a YAML file on top of DefaultRunConfig. Keys missing in the file keep their defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Join(ErrReadingConfigFileFailed, err)
	}

	if unmarshalErr := yaml.Unmarshal(content, &cfg); unmarshalErr != nil {
		return RunConfig{}, errors.Join(ErrParsingConfigFileFailed, unmarshalErr)
	}

	return cfg, nil
}

// ApplyEnv overrides driver and DSN from the environment, as reported by lookup (os.LookupEnv in production).
func (c RunConfig) ApplyEnv(lookup func(key string) (string, bool)) RunConfig {
	if driver, ok := lookup(EnvDriver); ok && driver != "" {
		c.Driver = driver
	}

	if dsn, ok := lookup(EnvDSN); ok && dsn != "" {
		c.DSN = dsn
	}

	return c
}

// ResolvedDSN returns the DSN to connect with: the configured one, or the driver's default.
// uniqueName names the in-memory SQLite database.
func (c RunConfig) ResolvedDSN(uniqueName string) string {
	if c.DSN != "" {
		return c.DSN
	}

	if c.Driver == DriverSQLite {
		return InMemorySQLiteDSN(uniqueName)
	}

	return DefaultPostgresDSN()
}

// Validate checks the driver and the ranges of all numeric parameters.
// Worker counts below 1 are allowed; the run clamps them to one worker.
func (c RunConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPGX, DriverPostgres, DriverSQLX:
	default:
		return errors.Join(ErrUnsupportedDriver, fmt.Errorf("driver %q", c.Driver))
	}

	var problems []error

	if c.Attempts < 0 {
		problems = append(problems, fmt.Errorf("attempts must not be negative, got %d", c.Attempts))
	}

	if c.MaxWorkers < 0 {
		problems = append(problems, fmt.Errorf("max_workers must not be negative, got %d", c.MaxWorkers))
	}

	if c.Query == "" {
		problems = append(problems, errors.New("query must not be empty"))
	}

	if c.Table == "" {
		problems = append(problems, errors.New("table must not be empty"))
	}

	if c.AttemptTimeout < 0 {
		problems = append(problems, fmt.Errorf("attempt_timeout must not be negative, got %s", c.AttemptTimeout))
	}

	if len(problems) > 0 {
		return errors.Join(append([]error{ErrInvalidRunConfig}, problems...)...)
	}

	return nil
}
