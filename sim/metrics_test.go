package sim

import (
	"testing"
	"time"
)

// TestHistogramBasics tests recording and simple statistics
func TestHistogramBasics(t *testing.T) {
	h := NewHistogram(100)

	if h.Count() != 0 {
		t.Errorf("Expected empty histogram, got %d samples", h.Count())
	}
	if h.Mean() != 0 || h.Min() != 0 || h.Max() != 0 {
		t.Error("Empty histogram statistics should be 0")
	}

	for _, v := range []float64{10, 20, 30, 40, 50} {
		h.Record(v)
	}

	if h.Count() != 5 {
		t.Errorf("Expected 5 samples, got %d", h.Count())
	}
	if h.Mean() != 30 {
		t.Errorf("Expected mean 30, got %g", h.Mean())
	}
	if h.Min() != 10 {
		t.Errorf("Expected min 10, got %g", h.Min())
	}
	if h.Max() != 50 {
		t.Errorf("Expected max 50, got %g", h.Max())
	}
	if p := h.Percentile(50); p != 30 {
		t.Errorf("Expected median 30, got %g", p)
	}
}

// TestHistogramCapacity tests FIFO sample retention
func TestHistogramCapacity(t *testing.T) {
	h := NewHistogram(3)

	for i := 1; i <= 5; i++ {
		h.Record(float64(i))
	}

	if h.Count() != 3 {
		t.Errorf("Expected 3 retained samples, got %d", h.Count())
	}
	// Oldest samples (1, 2) were pushed out.
	if h.Min() != 3 {
		t.Errorf("Expected min 3, got %g", h.Min())
	}
}

// TestHistogramReset tests clearing samples
func TestHistogramReset(t *testing.T) {
	h := NewHistogram(10)
	h.Record(42)
	h.Reset()

	if h.Count() != 0 {
		t.Errorf("Expected empty histogram after reset, got %d samples", h.Count())
	}
}

// TestHistogramSnapshot tests the aggregate snapshot
func TestHistogramSnapshot(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 100; i++ {
		h.Record(float64(i))
	}

	s := h.Snapshot()
	if s.Count != 100 {
		t.Errorf("Expected 100 samples, got %d", s.Count)
	}
	if s.P50 < 49 || s.P50 > 52 {
		t.Errorf("Expected median near 50, got %g", s.P50)
	}
	if s.P99 < 98 {
		t.Errorf("Expected P99 near 99, got %g", s.P99)
	}
}

// TestMetricsRecordRun tests accumulation across runs
func TestMetricsRecordRun(t *testing.T) {
	m := NewMetrics()

	lru := NewLRUPolicy(3)
	result, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	m.RecordRun(result, 150*time.Microsecond)
	m.RecordRun(result, 250*time.Microsecond)

	s := m.Snapshot()
	if s.Runs != 2 {
		t.Errorf("Expected 2 runs, got %d", s.Runs)
	}
	if s.References != 24 {
		t.Errorf("Expected 24 references, got %d", s.References)
	}
	if s.Faults != 20 {
		t.Errorf("Expected 20 faults, got %d", s.Faults)
	}
	if s.Hits != 4 {
		t.Errorf("Expected 4 hits, got %d", s.Hits)
	}
	if s.Evictions != 14 {
		t.Errorf("Expected 14 evictions, got %d", s.Evictions)
	}

	wantRatio := 4.0 / 24.0
	if s.HitRatio < wantRatio-1e-9 || s.HitRatio > wantRatio+1e-9 {
		t.Errorf("Expected hit ratio %g, got %g", wantRatio, s.HitRatio)
	}
	if s.Latency.Count != 2 {
		t.Errorf("Expected 2 latency samples, got %d", s.Latency.Count)
	}
	if s.Latency.Mean != 200 {
		t.Errorf("Expected mean latency 200us, got %g", s.Latency.Mean)
	}
}

// TestMetricsReset tests zeroing all counters
func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	lru := NewLRUPolicy(2)
	result, err := lru.Simulate([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	m.RecordRun(result, time.Millisecond)

	m.Reset()

	s := m.Snapshot()
	if s.Runs != 0 || s.References != 0 || s.Faults != 0 {
		t.Errorf("Expected zeroed counters, got %+v", s)
	}
	if s.HitRatio != 0 {
		t.Errorf("Expected hit ratio 0, got %g", s.HitRatio)
	}
}
