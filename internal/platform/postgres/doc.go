// Package postgres provides the PostgreSQL implementation of the ledger
// store defined in the internal/store package. It handles connections
// through the pgx stdlib driver, embedded goose migrations, and mapping of
// PostgreSQL errors to store errors.
package postgres
