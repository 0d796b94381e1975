// Package postgres implements the store interfaces on PostgreSQL via
// database/sql with the pgx stdlib driver. All stores operate through
// store.DBTX, so the same implementation serves both a *sql.DB and a
// transaction handle.
package postgres
