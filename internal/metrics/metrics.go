// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Generation pipeline metrics
	IncSpecGenerated()
	IncProviderFailure()
	IncParseFallback()
	ObserveProviderDuration(duration time.Duration)

	// Spec management metrics
	IncSpecRefined()
	IncSpecUpdated()
	IncSpecDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
