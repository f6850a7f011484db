package compiler

import (
	"github.com/phrazzld/studygraph/internal/domain"
)

// Compiler builds decks from note text. The zero value is not usable; use New.
type Compiler struct {
	ids     IDAllocator
	markers MarkerPicker
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithIDAllocator overrides the identifier allocator.
func WithIDAllocator(ids IDAllocator) Option {
	return func(c *Compiler) {
		if ids != nil {
			c.ids = ids
		}
	}
}

// WithMarkers overrides the decorative marker picker.
func WithMarkers(markers MarkerPicker) Option {
	return func(c *Compiler) {
		if markers != nil {
			c.markers = markers
		}
	}
}

// New creates a Compiler that allocates UUID identifiers and random markers
// unless overridden.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		ids:     UUIDAllocator{},
		markers: RandomMarkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles raw text with a default Compiler.
func Compile(raw string) (*domain.CompiledDeck, error) {
	return New().Compile(raw)
}

// IDs returns the compiler's identifier allocator so callers adding edges
// later draw from the same identifier space.
func (c *Compiler) IDs() IDAllocator {
	return c.ids
}

// Compile runs a single forward scan over the classified lines of raw.
// On failure it returns a *domain.CompileError and no deck.
func (c *Compiler) Compile(raw string) (*domain.CompiledDeck, error) {
	lines := Lines(raw)
	deck := &domain.CompiledDeck{
		Nodes:      []domain.ConceptNode{},
		Edges:      []domain.ConceptEdge{},
		Flashcards: []domain.Flashcard{},
	}

	currentTitle := ""
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch line.Kind {
		case TitleLine:
			currentTitle = c.addNode(deck, domain.NodeKindTitle, line.Text)

		case DescriptionLine:
			// dropped without an active title
			if currentTitle == "" {
				continue
			}
			id := c.addNode(deck, domain.NodeKindDescription, line.Text)
			c.addEdge(deck, currentTitle, id)

		case QuestionLine:
			id := c.addNode(deck, domain.NodeKindQuestion, line.Text)
			if currentTitle != "" {
				c.addEdge(deck, currentTitle, id)
			}
			answer := ""
			if i+1 < len(lines) && lines[i+1].Kind == AnswerLine {
				answer = lines[i+1].Text
				i++
			}
			deck.Flashcards = append(deck.Flashcards, domain.Flashcard{
				ID:       id,
				Question: line.Text,
				Answer:   answer,
			})

		case AnswerLine, Unrecognized:
			// stray answers and free text are ignored
		}
	}

	if len(deck.Nodes) == 0 {
		return nil, domain.NewCompileError(domain.CompileReasonEmptyGraph)
	}
	if len(deck.Flashcards) == 0 {
		return nil, domain.NewCompileError(domain.CompileReasonNoFlashcards)
	}
	return deck, nil
}

func (c *Compiler) addNode(deck *domain.CompiledDeck, kind domain.NodeKind, label string) string {
	id := c.ids.NodeID(kind)
	deck.Nodes = append(deck.Nodes, domain.ConceptNode{
		ID:     id,
		Label:  label,
		Kind:   kind,
		Marker: c.markers(kind),
	})
	return id
}

func (c *Compiler) addEdge(deck *domain.CompiledDeck, source, target string) {
	deck.Edges = append(deck.Edges, domain.ConceptEdge{
		ID:     c.ids.EdgeID(source, target),
		Source: source,
		Target: target,
	})
}
