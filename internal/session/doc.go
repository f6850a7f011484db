// Package session implements the study session coordinator: the Idle to
// Generated state machine that compiles notes into a deck, lays the deck
// out, walks a cursor over its flashcards, and records responses in the
// performance ledger.
package session
