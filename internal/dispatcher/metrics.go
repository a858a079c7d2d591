package dispatcher

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/eventgate/internal/event"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-type metrics
	typeMetrics map[event.TypeID]*TypeMetrics

	// Global counters
	totalProcessed uint64
	totalErrors    uint64
	immediate      uint64
	queued         uint64
	filtered       uint64
	escapes        uint64
	violations     uint64

	// High-water marks
	maxQueueLen   int
	maxDrainDepth int

	// Timing
	totalDuration time.Duration
}

// TypeMetrics holds metrics for a specific event type.
type TypeMetrics struct {
	Type          event.TypeID
	ProcessCount  uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastProcessed time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		typeMetrics: make(map[event.TypeID]*TypeMetrics),
	}
}

// RecordProcess records one processed event. The duration covers routing
// and the nested drain that followed it.
func (m *Metrics) RecordProcess(t event.TypeID, duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalProcessed++
	m.totalDuration += duration
	if failed {
		m.totalErrors++
	}

	tm := m.typeMetrics[t]
	if tm == nil {
		tm = &TypeMetrics{
			Type:        t,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.typeMetrics[t] = tm
	}

	tm.ProcessCount++
	tm.TotalDuration += duration
	tm.LastProcessed = time.Now()
	if duration < tm.MinDuration {
		tm.MinDuration = duration
	}
	if duration > tm.MaxDuration {
		tm.MaxDuration = duration
	}
	if failed {
		tm.ErrorCount++
	}
}

// RecordImmediate records a dispatch routed synchronously.
func (m *Metrics) RecordImmediate() {
	m.mu.Lock()
	m.immediate++
	m.mu.Unlock()
}

// RecordQueued records a deferred dispatch and the resulting queue length.
func (m *Metrics) RecordQueued(queueLen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued++
	if queueLen > m.maxQueueLen {
		m.maxQueueLen = queueLen
	}
}

// RecordFiltered records an event dropped on arrival.
func (m *Metrics) RecordFiltered() {
	m.mu.Lock()
	m.filtered++
	m.mu.Unlock()
}

// RecordDrain records the depth of a drain that started.
func (m *Metrics) RecordDrain(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if depth > m.maxDrainDepth {
		m.maxDrainDepth = depth
	}
}

// RecordEscape records an escape signal caught by a drain.
func (m *Metrics) RecordEscape() {
	m.mu.Lock()
	m.escapes++
	m.mu.Unlock()
}

// RecordViolation records a refused contract violation.
func (m *Metrics) RecordViolation() {
	m.mu.Lock()
	m.violations++
	m.mu.Unlock()
}

// TotalProcessed returns the total number of processed events.
func (m *Metrics) TotalProcessed() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalProcessed
}

// TotalErrors returns the number of events whose processing failed.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TypeStats returns metrics for a specific event type.
func (m *Metrics) TypeStats(t event.TypeID) *TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tm := m.typeMetrics[t]
	if tm == nil {
		return nil
	}

	// Return a copy
	copy := *tm
	return &copy
}

// TopTypes returns the N most processed event types.
func (m *Metrics) TopTypes(n int) []*TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]*TypeMetrics, 0, len(m.typeMetrics))
	for _, tm := range m.typeMetrics {
		copy := *tm
		types = append(types, &copy)
	}

	sort.Slice(types, func(i, j int) bool {
		if types[i].ProcessCount == types[j].ProcessCount {
			return types[i].Type < types[j].Type
		}
		return types[i].ProcessCount > types[j].ProcessCount
	})

	if n > len(types) {
		n = len(types)
	}
	return types[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.typeMetrics = make(map[event.TypeID]*TypeMetrics)
	m.totalProcessed = 0
	m.totalErrors = 0
	m.immediate = 0
	m.queued = 0
	m.filtered = 0
	m.escapes = 0
	m.violations = 0
	m.maxQueueLen = 0
	m.maxDrainDepth = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the global counters.
type MetricsSnapshot struct {
	TotalProcessed  uint64
	TotalErrors     uint64
	Immediate       uint64
	Queued          uint64
	Filtered        uint64
	Escapes         uint64
	Violations      uint64
	MaxQueueLen     int
	MaxDrainDepth   int
	TotalDuration   time.Duration
	AverageDuration time.Duration
	TypeCount       int
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalProcessed: m.totalProcessed,
		TotalErrors:    m.totalErrors,
		Immediate:      m.immediate,
		Queued:         m.queued,
		Filtered:       m.filtered,
		Escapes:        m.escapes,
		Violations:     m.violations,
		MaxQueueLen:    m.maxQueueLen,
		MaxDrainDepth:  m.maxDrainDepth,
		TotalDuration:  m.totalDuration,
		TypeCount:      len(m.typeMetrics),
		Timestamp:      time.Now(),
	}

	if m.totalProcessed > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalProcessed)
	}

	return snapshot
}

// AverageDuration returns the average processing duration for the type.
func (tm *TypeMetrics) AverageDuration() time.Duration {
	if tm.ProcessCount == 0 {
		return 0
	}
	return tm.TotalDuration / time.Duration(tm.ProcessCount)
}

// ErrorRate returns the error rate as a percentage.
func (tm *TypeMetrics) ErrorRate() float64 {
	if tm.ProcessCount == 0 {
		return 0
	}
	return float64(tm.ErrorCount) / float64(tm.ProcessCount) * 100
}
