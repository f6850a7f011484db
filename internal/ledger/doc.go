// Package ledger implements the performance ledger: per-flashcard correct,
// incorrect, and visit counters kept in memory and written through to a
// store.LedgerStore on every mutation.
//
// The ledger is an explicitly owned object. Callers construct it with New,
// call Load once at startup, and hand it to the session coordinator.
// A missing or corrupt store never stops the process: Load falls back to an
// empty ledger and reports a *LoadError for logging.
package ledger
