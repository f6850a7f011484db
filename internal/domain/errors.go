// Package domain defines the core study entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Compilation errors. Their messages are shown to the user as-is.
var (
	// ErrEmptyGraph is returned when compilation produced zero concept nodes.
	ErrEmptyGraph = errors.New(
		"no valid nodes found: check that your notes include 'Node Title:' and 'Question:' lines",
	)

	// ErrNoFlashcards is returned when nodes exist but no Question lines were recognized.
	ErrNoFlashcards = errors.New("no Q/A pairs found: add at least one 'Question:' line")
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidLedgerEntry is returned when a ledger entry breaks its counter invariant.
	ErrInvalidLedgerEntry = errors.New("invalid ledger entry")

	// ErrDanglingEdge is returned when an edge references a node outside its deck.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// CompileReason classifies a compilation failure.
type CompileReason string

// Possible compilation failure reasons
const (
	CompileReasonEmptyGraph   CompileReason = "empty_graph"
	CompileReasonNoFlashcards CompileReason = "no_flashcards"
)

// CompileError is the typed failure returned by note compilation.
// It wraps ErrEmptyGraph or ErrNoFlashcards so callers can use errors.Is.
type CompileError struct {
	Reason CompileReason
	Err    error
}

// Error implements the error interface for CompileError.
func (e *CompileError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// NewCompileError builds a CompileError for the given reason.
func NewCompileError(reason CompileReason) *CompileError {
	switch reason {
	case CompileReasonEmptyGraph:
		return &CompileError{Reason: reason, Err: ErrEmptyGraph}
	case CompileReasonNoFlashcards:
		return &CompileError{Reason: reason, Err: ErrNoFlashcards}
	default:
		return &CompileError{Reason: reason, Err: fmt.Errorf("%w: compilation failed (%s)", ErrValidation, reason)}
	}
}
