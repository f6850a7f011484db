// Package store defines the persistence contract of the performance ledger.
// Backends live under internal/platform; this package holds the interface,
// shared errors, entry checks, the transaction helper used by the SQL
// backends, and an in-memory implementation.
package store
