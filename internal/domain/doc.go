// Package domain contains the core study entities: the concept graph and
// flashcards produced by note compilation, and the per-card performance
// ledger entries recorded across study sessions. It is independent of any
// specific storage, transport, or rendering mechanism.
package domain
