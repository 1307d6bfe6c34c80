// Package adapters provide the database adapters the SQL probe executor runs its statements through.
//
// pgxpool.Pool, sql.DB and sqlx.DB are all wrapped behind the DBAdapter interface, so the executor
// builds and runs the same SQL regardless of the connection type it was created from.
package adapters
