package api

import (
	"net/http"

	"github.com/phrazzld/studygraph/internal/api/shared"
	"github.com/phrazzld/studygraph/internal/examples"
	"github.com/phrazzld/studygraph/internal/pomodoro"
)

// TimerHandler handles pomodoro timer HTTP requests
type TimerHandler struct {
	timer *pomodoro.Timer
}

// NewTimerHandler creates a new TimerHandler
func NewTimerHandler(timer *pomodoro.Timer) *TimerHandler {
	if timer == nil {
		panic("timer cannot be nil for TimerHandler")
	}
	return &TimerHandler{timer: timer}
}

// Get handles GET /api/timer.
func (h *TimerHandler) Get(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.timer.State())
}

// Start handles POST /api/timer/start.
func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.timer.Start()
	shared.RespondWithJSON(w, r, http.StatusOK, h.timer.State())
}

// Pause handles POST /api/timer/pause.
func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.timer.Pause()
	shared.RespondWithJSON(w, r, http.StatusOK, h.timer.State())
}

// Reset handles POST /api/timer/reset.
func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.timer.Reset()
	shared.RespondWithJSON(w, r, http.StatusOK, h.timer.State())
}

// ExamplesHandler serves the bundled example notes.
type ExamplesHandler struct {
	pick func() examples.Example
}

// NewExamplesHandler creates an ExamplesHandler. A nil pick uses
// examples.Random with the global source.
func NewExamplesHandler(pick func() examples.Example) *ExamplesHandler {
	if pick == nil {
		pick = func() examples.Example { return examples.Random(nil) }
	}
	return &ExamplesHandler{pick: pick}
}

// Random handles GET /api/examples/random.
func (h *ExamplesHandler) Random(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.pick())
}

// List handles GET /api/examples.
func (h *ExamplesHandler) List(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, examples.All())
}
