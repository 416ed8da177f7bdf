package sim

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Histogram tracks latency distribution with percentile support
type Histogram struct {
	samples []float64 // Latencies in microseconds
	mu      sync.RWMutex
	maxSize int  // Maximum samples to retain
	sorted  bool // Track if samples are sorted
}

// NewHistogram creates a new histogram with a max sample size
func NewHistogram(maxSize int) *Histogram {
	if maxSize <= 0 {
		maxSize = 10000 // Default: keep last 10k samples
	}
	return &Histogram{
		samples: make([]float64, 0, maxSize),
		maxSize: maxSize,
		sorted:  true,
	}
}

// Record adds a latency sample (in microseconds)
func (h *Histogram) Record(latencyUs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If at capacity, remove oldest sample (FIFO)
	if len(h.samples) >= h.maxSize {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:len(h.samples)-1]
	}

	h.samples = append(h.samples, latencyUs)
	h.sorted = false
}

// Percentile calculates the given percentile (0-100)
func (h *Histogram) Percentile(p float64) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return 0
	}

	// Sort if needed (lazy sorting)
	if !h.sorted {
		h.mu.RUnlock()
		h.mu.Lock()
		if !h.sorted { // Double-check after acquiring write lock
			sort.Float64s(h.samples)
			h.sorted = true
		}
		h.mu.Unlock()
		h.mu.RLock()
	}

	rank := (p / 100.0) * float64(len(h.samples)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return h.samples[lower]
	}

	// Linear interpolation between lower and upper
	weight := rank - float64(lower)
	return h.samples[lower]*(1-weight) + h.samples[upper]*weight
}

// Mean calculates the average latency
func (h *Histogram) Mean() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range h.samples {
		sum += v
	}
	return sum / float64(len(h.samples))
}

// Min returns the minimum latency
func (h *Histogram) Min() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return 0
	}

	min := h.samples[0]
	for _, v := range h.samples {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum latency
func (h *Histogram) Max() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.samples) == 0 {
		return 0
	}

	max := h.samples[0]
	for _, v := range h.samples {
		if v > max {
			max = v
		}
	}
	return max
}

// Count returns the number of samples
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

// Reset clears all samples
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = h.samples[:0]
	h.sorted = true
}

// HistogramSnapshot holds current percentile statistics
type HistogramSnapshot struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
	P50   float64 // Median
	P95   float64
	P99   float64
}

// Snapshot captures current histogram statistics
func (h *Histogram) Snapshot() HistogramSnapshot {
	return HistogramSnapshot{
		Count: h.Count(),
		Min:   h.Min(),
		Max:   h.Max(),
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
	}
}

// Metrics tracks simulator performance metrics across runs
type Metrics struct {
	// Simulation Metrics
	runs       atomic.Uint64
	references atomic.Uint64
	hits       atomic.Uint64
	faults     atomic.Uint64
	evictions  atomic.Uint64

	// Latency Histogram (microseconds)
	simulateLatency *Histogram // Simulate call latency

	startTime time.Time
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		simulateLatency: NewHistogram(10000),
		startTime:       time.Now(),
	}
}

// RecordRun accumulates one simulation result and its wall-clock duration
func (m *Metrics) RecordRun(result *SimulationResult, elapsed time.Duration) {
	m.runs.Add(1)
	m.references.Add(uint64(result.References()))
	m.hits.Add(uint64(result.Hits()))
	m.faults.Add(uint64(result.FaultCount))
	m.evictions.Add(uint64(result.Evictions()))
	m.simulateLatency.Record(float64(elapsed.Microseconds()))
}

// MetricsSnapshot is a point-in-time view of all metrics
type MetricsSnapshot struct {
	Runs       uint64
	References uint64
	Hits       uint64
	Faults     uint64
	Evictions  uint64
	HitRatio   float64
	Latency    HistogramSnapshot
	Uptime     time.Duration
}

// Snapshot captures current metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	refs := m.references.Load()
	hits := m.hits.Load()

	hitRatio := 0.0
	if refs > 0 {
		hitRatio = float64(hits) / float64(refs)
	}

	return MetricsSnapshot{
		Runs:       m.runs.Load(),
		References: refs,
		Hits:       hits,
		Faults:     m.faults.Load(),
		Evictions:  m.evictions.Load(),
		HitRatio:   hitRatio,
		Latency:    m.simulateLatency.Snapshot(),
		Uptime:     time.Since(m.startTime),
	}
}

// Reset clears all counters and samples
func (m *Metrics) Reset() {
	m.runs.Store(0)
	m.references.Store(0)
	m.hits.Store(0)
	m.faults.Store(0)
	m.evictions.Store(0)
	m.simulateLatency.Reset()
	m.startTime = time.Now()
}

// LogSummary writes the current snapshot through the given logger
func (m *Metrics) LogSummary(logger *slog.Logger) {
	s := m.Snapshot()
	logger.Info("simulation metrics",
		"runs", s.Runs,
		"references", s.References,
		"hits", s.Hits,
		"faults", s.Faults,
		"evictions", s.Evictions,
		"hit_ratio", s.HitRatio,
		"latency_mean_us", s.Latency.Mean,
		"latency_p99_us", s.Latency.P99,
	)
}
