// Package compiler turns semi-structured plain-text notes into a
// domain.CompiledDeck.
//
// Input is line oriented. Each trimmed, non-blank line is classified by one
// of four case-insensitive prefixes:
//
//	Node Title: <text>
//	Node Description: <text>
//	Question: <text>
//	Answer: <text>
//
// Any other line is ignored. Titles become root concept nodes; descriptions
// and questions hang off the most recent title. An Answer line is consumed
// only when it directly follows its Question line. Compilation fails with
// domain.ErrEmptyGraph when no node was produced and domain.ErrNoFlashcards
// when there is no Question line at all.
package compiler
