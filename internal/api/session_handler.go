package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/studygraph/internal/api/shared"
	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/layout"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/session"
)

// SessionService is the session surface the handlers drive.
// *session.Coordinator satisfies it.
type SessionService interface {
	Generate(ctx context.Context, raw string) error
	Flip() (session.CardFace, error)
	Respond(ctx context.Context, wasCorrect bool) (domain.LedgerEntry, error)
	ResetDeck(ctx context.Context) error
	Connect(ctx context.Context, source, target string) (domain.ConceptEdge, error)
	Snapshot() session.Snapshot
	Render() (*domain.CompiledDeck, *layout.Graph)
	Heatmap() []session.HeatmapRow
	Summary() domain.StatusSummary
}

var _ SessionService = (*session.Coordinator)(nil)

// SessionHandler handles study session HTTP requests
type SessionHandler struct {
	session SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(s SessionService, log *slog.Logger) *SessionHandler {
	if s == nil {
		panic("session cannot be nil for SessionHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SessionHandler{
		session: s,
		logger:  log.With(slog.String("component", "session_handler")),
	}
}

// Generate handles POST /api/session/generate. It compiles the submitted
// notes, replacing any current deck.
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.session.Generate(r.Context(), req.Text); err != nil {
		log.Debug("generate rejected", slog.String("error", err.Error()))
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.session.Snapshot())
}

// GetSession handles GET /api/session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.session.Snapshot())
}

// Flip handles POST /api/session/flip.
func (h *SessionHandler) Flip(w http.ResponseWriter, r *http.Request) {
	face, err := h.session.Flip()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlipResponse{Face: face})
}

// Respond handles POST /api/session/respond.
func (h *SessionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.session.Respond(r.Context(), *req.Correct)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, RespondResponse{
		Entry:   entry,
		Session: h.session.Snapshot(),
	})
}

// Reset handles POST /api/session/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ResetDeck(r.Context()); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.session.Snapshot())
}

// Connect handles POST /api/session/connect.
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	edge, err := h.session.Connect(r.Context(), req.Source, req.Target)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, edge)
}

// GetDeck handles GET /api/deck.
func (h *SessionHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, graph := h.session.Render()
	if deck == nil {
		HandleAPIError(w, r, session.ErrNotGenerated)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DeckResponse{
		Layout:     graph,
		Flashcards: deck.Flashcards,
	})
}

// GetHeatmap handles GET /api/heatmap.
func (h *SessionHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HeatmapResponse{
		Cards:   h.session.Heatmap(),
		Summary: h.session.Summary(),
	})
}

// decodeAndValidate writes a 400 response and returns false when the body
// cannot be decoded or fails validation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
