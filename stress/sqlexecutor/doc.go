// Package sqlexecutor provides a stress.QueryExecutor that runs the probe query against a real database.
//
// Every attempt renders its own SELECT with the cache-busting token interpolated as a literal,
// so no two attempts share SQL text:
//
//	SELECT "id", "name" FROM "person" WHERE name = COALESCE(name, 'x') AND name = 'cacheBuster.<run>.3.17'
//
// The executor can be created from a pgxpool.Pool, a sql.DB (lib/pq, go-sqlite3) or a sqlx.DB.
// PrepareSchema creates the probed table; it is left empty, since the probe is about the
// statement path and not about the data.
package sqlexecutor
