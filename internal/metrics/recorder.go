package metrics

import "time"

// OutcomeLabel enumerates ask result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess    OutcomeLabel = "success"
	OutcomeNoExcerpts OutcomeLabel = "no_excerpts"
	OutcomeInvalid    OutcomeLabel = "invalid"
	OutcomeError      OutcomeLabel = "error"
)

// Recorder defines observability hooks for the chat pipeline. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe on the
// NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveAskDuration(d time.Duration)
	ObserveRetrievalDuration(d time.Duration)
	ObserveRenderDuration(d time.Duration)
	IncAskOutcome(outcome OutcomeLabel)
	ObserveExcerptsReturned(n int)
	SetIndexedChunks(n int)
	IncSuggestionRotations()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveAskDuration(time.Duration)       {}
func (NoopRecorder) ObserveRetrievalDuration(time.Duration) {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)    {}
func (NoopRecorder) IncAskOutcome(OutcomeLabel)             {}
func (NoopRecorder) ObserveExcerptsReturned(int)            {}
func (NoopRecorder) SetIndexedChunks(int)                   {}
func (NoopRecorder) IncSuggestionRotations()                {}
