// Package config provides the configuration of a querycache stress run:
// the run parameters (RunConfig, loadable from YAML and the environment),
// connection factories for the supported drivers (pgx.Pool, sql.DB, sqlx.DB on PostgreSQL,
// and an in-memory SQLite sql.DB) and the OpenTelemetry providers for exporting telemetry.
package config
