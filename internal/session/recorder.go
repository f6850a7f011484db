package session

import "time"

// Recorder receives session events for instrumentation.
type Recorder interface {
	DeckCompiled(nodes, flashcards int)
	CompileFailed(reason string)
	ResponseRecorded(correct bool)
	LedgerWrite(err error)
	LayoutObserved(d time.Duration)
}

// NopRecorder discards every event.
type NopRecorder struct{}

var _ Recorder = NopRecorder{}

func (NopRecorder) DeckCompiled(int, int)        {}
func (NopRecorder) CompileFailed(string)         {}
func (NopRecorder) ResponseRecorded(bool)        {}
func (NopRecorder) LedgerWrite(error)            {}
func (NopRecorder) LayoutObserved(time.Duration) {}
