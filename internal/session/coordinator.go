package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/studygraph/internal/compiler"
	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/layout"
	"github.com/phrazzld/studygraph/internal/ledger"
	"github.com/phrazzld/studygraph/internal/platform/logger"
)

// Compiler turns note text into a deck. *compiler.Compiler satisfies it.
type Compiler interface {
	Compile(raw string) (*domain.CompiledDeck, error)
	IDs() compiler.IDAllocator
}

// Coordinator owns the session state. All operations are serialized by an
// internal mutex, so a single coordinator can back concurrent HTTP handlers.
type Coordinator struct {
	mu sync.Mutex

	compiler  Compiler
	engine    layout.Engine
	ledger    *ledger.Ledger
	direction layout.Direction
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time

	phase     Phase
	deck      *domain.CompiledDeck
	graph     *layout.Graph
	cursor    int
	face      CardFace
	lastError string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithCompiler overrides the note compiler.
func WithCompiler(c Compiler) Option {
	return func(co *Coordinator) {
		if c != nil {
			co.compiler = c
		}
	}
}

// WithLayoutEngine overrides the layout engine.
func WithLayoutEngine(e layout.Engine) Option {
	return func(co *Coordinator) {
		if e != nil {
			co.engine = e
		}
	}
}

// WithDirection sets the layout direction.
func WithDirection(d layout.Direction) Option {
	return func(co *Coordinator) {
		if d != "" {
			co.direction = d
		}
	}
}

// WithRecorder sets the instrumentation recorder.
func WithRecorder(r Recorder) Option {
	return func(co *Coordinator) {
		if r != nil {
			co.recorder = r
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) Option {
	return func(co *Coordinator) {
		if l != nil {
			co.logger = l
		}
	}
}

// NewCoordinator creates an Idle coordinator around an already loaded
// ledger. It panics if l is nil.
func NewCoordinator(l *ledger.Ledger, opts ...Option) *Coordinator {
	if l == nil {
		panic("ledger cannot be nil")
	}
	c := &Coordinator{
		compiler:  compiler.New(),
		engine:    layout.NewDefaultEngine(),
		ledger:    l,
		direction: layout.TopToBottom,
		recorder:  NopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
		phase:     PhaseIdle,
		face:      FaceQuestion,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "session"))
	return c
}

// Generate compiles raw, lays the deck out, and moves to Generated with the
// cursor on the first card showing its question. It is valid in both
// phases. On failure the error message is kept for display and the state is
// left exactly as it was.
func (c *Coordinator) Generate(ctx context.Context, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generateLocked(ctx, raw)
}

// Regenerate replaces the current deck, cursor, and layout with a fresh
// compilation of raw. Ledger entries of the old deck are left in place.
func (c *Coordinator) Regenerate(ctx context.Context, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return ErrNotGenerated
	}
	return c.generateLocked(ctx, raw)
}

func (c *Coordinator) generateLocked(ctx context.Context, raw string) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	deck, err := c.compiler.Compile(raw)
	if err != nil {
		c.lastError = err.Error()
		var compileErr *domain.CompileError
		reason := "unknown"
		if errors.As(err, &compileErr) {
			reason = string(compileErr.Reason)
		}
		c.recorder.CompileFailed(reason)
		log.Info("note compilation failed",
			slog.String("reason", reason),
			slog.String("phase", string(c.phase)))
		return err
	}

	graph, err := c.layout(deck)
	if err != nil {
		c.lastError = err.Error()
		log.Error("layout of compiled deck failed", slog.String("error", err.Error()))
		return fmt.Errorf("layout deck: %w", err)
	}

	c.deck = deck
	c.graph = graph
	c.cursor = 0
	c.face = FaceQuestion
	c.phase = PhaseGenerated
	c.lastError = ""

	c.recorder.DeckCompiled(len(deck.Nodes), len(deck.Flashcards))
	log.Info("deck generated",
		slog.Int("nodes", len(deck.Nodes)),
		slog.Int("edges", len(deck.Edges)),
		slog.Int("flashcards", len(deck.Flashcards)))
	return nil
}

func (c *Coordinator) layout(deck *domain.CompiledDeck) (*layout.Graph, error) {
	start := c.now()
	graph, err := c.engine.Layout(deck.Nodes, deck.Edges, c.direction)
	c.recorder.LayoutObserved(c.now().Sub(start))
	return graph, err
}

// Flip toggles the current card between question and answer. The ledger is
// not touched.
func (c *Coordinator) Flip() (CardFace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return c.face, ErrNotGenerated
	}
	if c.face == FaceQuestion {
		c.face = FaceAnswer
	} else {
		c.face = FaceQuestion
	}
	return c.face, nil
}

// Respond records the answer for the current card, advances the cursor with
// wrap-around, and shows the next card's question. A failed ledger write is
// logged and counted but does not fail the transition.
func (c *Coordinator) Respond(ctx context.Context, wasCorrect bool) (domain.LedgerEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return domain.LedgerEntry{}, ErrNotGenerated
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	card := c.deck.Flashcards[c.cursor]
	entry, err := c.ledger.RecordResponse(ctx, card.ID, wasCorrect)
	c.recorder.LedgerWrite(err)
	if err != nil {
		log.Warn("ledger write failed, keeping in-memory entry",
			slog.String("card_id", card.ID),
			slog.String("error", err.Error()))
	}
	c.recorder.ResponseRecorded(wasCorrect)

	c.cursor = (c.cursor + 1) % len(c.deck.Flashcards)
	c.face = FaceQuestion
	return entry, nil
}

// ResetDeck moves the cursor back to the first card's question and zeroes
// the ledger entries of every card in the deck.
func (c *Coordinator) ResetDeck(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return ErrNotGenerated
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	c.cursor = 0
	c.face = FaceQuestion

	err := c.ledger.ResetFor(ctx, c.deck.CardIDs())
	c.recorder.LedgerWrite(err)
	if err != nil {
		log.Warn("ledger write failed during deck reset", slog.String("error", err.Error()))
	}
	log.Info("deck reset", slog.Int("flashcards", len(c.deck.Flashcards)))
	return nil
}

// Connect adds an edge between two nodes of the current deck and lays the
// deck out again. Loops and cycles are accepted.
func (c *Coordinator) Connect(ctx context.Context, source, target string) (domain.ConceptEdge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return domain.ConceptEdge{}, ErrNotGenerated
	}
	for _, id := range []string{source, target} {
		if !c.deck.HasNode(id) {
			return domain.ConceptEdge{}, fmt.Errorf("%w: %q", ErrUnknownNode, id)
		}
	}

	edge := domain.ConceptEdge{
		ID:     c.compiler.IDs().EdgeID(source, target),
		Source: source,
		Target: target,
	}
	next := &domain.CompiledDeck{
		Nodes:      c.deck.Nodes,
		Edges:      append(append([]domain.ConceptEdge{}, c.deck.Edges...), edge),
		Flashcards: c.deck.Flashcards,
	}
	graph, err := c.layout(next)
	if err != nil {
		return domain.ConceptEdge{}, fmt.Errorf("layout deck: %w", err)
	}
	c.deck = next
	c.graph = graph

	logger.FromContextOrDefault(ctx, c.logger).Info("connection added",
		slog.String("edge_id", edge.ID),
		slog.String("source", source),
		slog.String("target", target),
		slog.Int("crossings", graph.Crossings))
	return edge, nil
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Cursor returns the index of the current flashcard.
func (c *Coordinator) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Face returns the visible side of the current card.
func (c *Coordinator) Face() CardFace {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.face
}

// CurrentCard returns the flashcard under the cursor. ok is false while Idle.
func (c *Coordinator) CurrentCard() (card domain.Flashcard, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return domain.Flashcard{}, false
	}
	return c.deck.Flashcards[c.cursor], true
}

// Deck returns the current deck, or nil while Idle. The deck must not be
// modified.
func (c *Coordinator) Deck() *domain.CompiledDeck {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck
}

// Layout returns the positioned graph of the current deck, or nil while Idle.
func (c *Coordinator) Layout() *layout.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// Render returns the current deck together with its positioned graph, read
// under one lock so the pair always matches. Both are nil while Idle.
func (c *Coordinator) Render() (*domain.CompiledDeck, *layout.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck, c.graph
}

// EntryFor returns the ledger entry for cardID.
func (c *Coordinator) EntryFor(cardID string) domain.LedgerEntry {
	return c.ledger.EntryFor(cardID)
}

// LastError returns the message of the most recent failed generation, or
// "" once a generation succeeds.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Snapshot returns a consistent view of the session state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:     c.phase,
		Cursor:    c.cursor,
		Face:      c.face,
		LastError: c.lastError,
	}
	if c.phase == PhaseGenerated {
		card := c.deck.Flashcards[c.cursor]
		entry := c.ledger.EntryFor(card.ID)
		s.CardCount = len(c.deck.Flashcards)
		s.Card = &card
		s.Entry = &entry
	}
	return s
}

// Heatmap returns one row per flashcard of the current deck, in deck order.
// It is empty while Idle.
func (c *Coordinator) Heatmap() []HeatmapRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseGenerated {
		return []HeatmapRow{}
	}
	rows := make([]HeatmapRow, 0, len(c.deck.Flashcards))
	for _, card := range c.deck.Flashcards {
		entry := c.ledger.EntryFor(card.ID)
		rows = append(rows, HeatmapRow{Card: card, Entry: entry, Status: entry.Status()})
	}
	return rows
}

// Summary counts the current deck's cards per status.
func (c *Coordinator) Summary() domain.StatusSummary {
	rows := c.Heatmap()
	entries := make([]domain.LedgerEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.Entry
	}
	return domain.Summarize(entries)
}
