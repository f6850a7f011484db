package session

import (
	"errors"

	"github.com/phrazzld/studygraph/internal/domain"
)

// Session errors
var (
	// ErrNotGenerated is returned by operations that need a loaded deck.
	ErrNotGenerated = errors.New("no deck generated yet")

	// ErrUnknownNode is returned by Connect when an endpoint is not in the deck.
	ErrUnknownNode = errors.New("node not found in current deck")
)

// Phase is the coordinator's state machine phase.
type Phase string

// Possible phases
const (
	PhaseIdle      Phase = "idle"
	PhaseGenerated Phase = "generated"
)

// CardFace is the visible side of the current flashcard.
type CardFace string

// Possible card faces
const (
	FaceQuestion CardFace = "question"
	FaceAnswer   CardFace = "answer"
)

// Snapshot is a consistent read of the session state.
type Snapshot struct {
	Phase     Phase               `json:"phase"`
	Cursor    int                 `json:"cursor"`
	Face      CardFace            `json:"face"`
	CardCount int                 `json:"card_count"`
	Card      *domain.Flashcard   `json:"card,omitempty"`
	Entry     *domain.LedgerEntry `json:"entry,omitempty"`
	LastError string              `json:"last_error,omitempty"`
}

// HeatmapRow pairs a flashcard with its ledger entry and classification.
type HeatmapRow struct {
	Card   domain.Flashcard   `json:"card"`
	Entry  domain.LedgerEntry `json:"entry"`
	Status domain.CardStatus  `json:"status"`
}
