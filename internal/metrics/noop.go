package metrics

import "time"

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncSpecGenerated()                       {}
func (NoopRecorder) IncProviderFailure()                     {}
func (NoopRecorder) IncParseFallback()                       {}
func (NoopRecorder) ObserveProviderDuration(_ time.Duration) {}
func (NoopRecorder) IncSpecRefined()                         {}
func (NoopRecorder) IncSpecUpdated()                         {}
func (NoopRecorder) IncSpecDeleted()                         {}
