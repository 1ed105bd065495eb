package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SpecsGenerated          uint64
	ProviderFailures        uint64
	ParseFallbacks          uint64
	ProviderDurationCount   uint64
	ProviderDurationTotalNs int64
	SpecsRefined            uint64
	SpecsUpdated            uint64
	SpecsDeleted            uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	specsGenerated          uint64
	providerFailures        uint64
	parseFallbacks          uint64
	providerDurationCount   uint64
	providerDurationTotalNs int64
	specsRefined            uint64
	specsUpdated            uint64
	specsDeleted            uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SpecsGenerated:          atomic.LoadUint64(&m.specsGenerated),
		ProviderFailures:        atomic.LoadUint64(&m.providerFailures),
		ParseFallbacks:          atomic.LoadUint64(&m.parseFallbacks),
		ProviderDurationCount:   atomic.LoadUint64(&m.providerDurationCount),
		ProviderDurationTotalNs: atomic.LoadInt64(&m.providerDurationTotalNs),
		SpecsRefined:            atomic.LoadUint64(&m.specsRefined),
		SpecsUpdated:            atomic.LoadUint64(&m.specsUpdated),
		SpecsDeleted:            atomic.LoadUint64(&m.specsDeleted),
	}
}

// IncSpecGenerated increments the generated spec counter.
func (m *InMemoryRecorder) IncSpecGenerated() {
	atomic.AddUint64(&m.specsGenerated, 1)
}

// IncProviderFailure increments the provider failure counter.
func (m *InMemoryRecorder) IncProviderFailure() {
	atomic.AddUint64(&m.providerFailures, 1)
}

// IncParseFallback increments the parse fallback counter.
func (m *InMemoryRecorder) IncParseFallback() {
	atomic.AddUint64(&m.parseFallbacks, 1)
}

// ObserveProviderDuration records a provider round-trip duration.
func (m *InMemoryRecorder) ObserveProviderDuration(duration time.Duration) {
	atomic.AddUint64(&m.providerDurationCount, 1)
	atomic.AddInt64(&m.providerDurationTotalNs, duration.Nanoseconds())
}

// IncSpecRefined increments the refinement counter.
func (m *InMemoryRecorder) IncSpecRefined() {
	atomic.AddUint64(&m.specsRefined, 1)
}

// IncSpecUpdated increments the updated spec counter.
func (m *InMemoryRecorder) IncSpecUpdated() {
	atomic.AddUint64(&m.specsUpdated, 1)
}

// IncSpecDeleted increments the deleted spec counter.
func (m *InMemoryRecorder) IncSpecDeleted() {
	atomic.AddUint64(&m.specsDeleted, 1)
}
