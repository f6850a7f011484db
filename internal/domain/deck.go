package domain

import (
	"errors"
	"fmt"
)

// NodeKind identifies what a concept node was compiled from.
type NodeKind string

// Possible node kinds
const (
	NodeKindTitle       NodeKind = "title"
	NodeKindDescription NodeKind = "description"
	NodeKindQuestion    NodeKind = "question"
)

// Deck validation errors
var (
	ErrNodeIDEmpty      = errors.New("node ID cannot be empty")
	ErrNodeKindInvalid  = errors.New("invalid node kind")
	ErrEdgeIDEmpty      = errors.New("edge ID cannot be empty")
	ErrFlashcardIDEmpty = errors.New("flashcard ID cannot be empty")
	ErrDuplicateID      = errors.New("duplicate identifier in deck")
)

// ConceptNode is a vertex of the compiled concept graph.
// Marker is a decorative icon for rendering only; it carries no meaning.
type ConceptNode struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Kind   NodeKind `json:"kind"`
	Marker string   `json:"marker,omitempty"`
}

// DisplayLabel returns the label prefixed with the node's marker, if any.
func (n ConceptNode) DisplayLabel() string {
	if n.Marker == "" {
		return n.Label
	}
	return n.Marker + " " + n.Label
}

// ConceptEdge is a directed connection between two nodes of the same deck.
type ConceptEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Flashcard is a question/answer pair. Its ID is shared with the question
// node it was compiled from. Answer may legitimately be empty.
type Flashcard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CompiledDeck is the output of one compilation run.
type CompiledDeck struct {
	Nodes      []ConceptNode `json:"nodes"`
	Edges      []ConceptEdge `json:"edges"`
	Flashcards []Flashcard   `json:"flashcards"`
}

// CardIDs returns the flashcard identifiers in deck order.
func (d *CompiledDeck) CardIDs() []string {
	ids := make([]string, len(d.Flashcards))
	for i, card := range d.Flashcards {
		ids[i] = card.ID
	}
	return ids
}

// HasNode reports whether a node with the given id belongs to the deck.
func (d *CompiledDeck) HasNode(id string) bool {
	for _, n := range d.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of the deck: non-empty node
// list, at least one flashcard, unique identifiers, and edges that only
// reference nodes of this deck.
func (d *CompiledDeck) Validate() error {
	if len(d.Nodes) == 0 {
		return ErrEmptyGraph
	}
	if len(d.Flashcards) == 0 {
		return ErrNoFlashcards
	}

	ids := make(map[string]struct{}, len(d.Nodes)+len(d.Edges))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return ErrNodeIDEmpty
		}
		if !isValidNodeKind(n.Kind) {
			return fmt.Errorf("%w: %q", ErrNodeKindInvalid, n.Kind)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		ids[n.ID] = struct{}{}
	}

	for _, e := range d.Edges {
		if e.ID == "" {
			return ErrEdgeIDEmpty
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		if !d.HasNode(e.Source) || !d.HasNode(e.Target) {
			return fmt.Errorf("%w: %s (%s -> %s)", ErrDanglingEdge, e.ID, e.Source, e.Target)
		}
		ids[e.ID] = struct{}{}
	}

	for _, c := range d.Flashcards {
		if c.ID == "" {
			return ErrFlashcardIDEmpty
		}
		if !d.HasNode(c.ID) {
			return fmt.Errorf("%w: flashcard %s has no question node", ErrDanglingEdge, c.ID)
		}
	}

	return nil
}

// isValidNodeKind checks if the given kind is a valid NodeKind.
func isValidNodeKind(kind NodeKind) bool {
	switch kind {
	case NodeKindTitle, NodeKindDescription, NodeKindQuestion:
		return true
	default:
		return false
	}
}
