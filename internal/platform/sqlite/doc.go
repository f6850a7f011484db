// Package sqlite provides an embedded SQLite ledger store built on the
// pure Go modernc.org/sqlite driver. The schema is managed by goose
// migrations embedded in the binary.
package sqlite
