package api

import (
	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/layout"
	"github.com/phrazzld/studygraph/internal/session"
)

// GenerateRequest is the payload of POST /api/session/generate.
type GenerateRequest struct {
	Text string `json:"text" validate:"max=200000"`
}

// RespondRequest is the payload of POST /api/session/respond.
type RespondRequest struct {
	// Correct is a pointer so a missing field fails validation instead of
	// silently meaning false.
	Correct *bool `json:"correct" validate:"required"`
}

// ConnectRequest is the payload of POST /api/session/connect.
type ConnectRequest struct {
	Source string `json:"source" validate:"required,max=128"`
	Target string `json:"target" validate:"required,max=128"`
}

// FlipResponse reports the visible card face after a flip.
type FlipResponse struct {
	Face session.CardFace `json:"face"`
}

// RespondResponse reports the recorded entry and the new session state.
type RespondResponse struct {
	Entry   domain.LedgerEntry `json:"entry"`
	Session session.Snapshot   `json:"session"`
}

// DeckResponse is the render-ready deck: positioned nodes, edges, and
// flashcards.
type DeckResponse struct {
	Layout     *layout.Graph      `json:"layout"`
	Flashcards []domain.Flashcard `json:"flashcards"`
}

// HeatmapResponse lists per-card entries with a status summary.
type HeatmapResponse struct {
	Cards   []session.HeatmapRow `json:"cards"`
	Summary domain.StatusSummary `json:"summary"`
}
