package sim

import (
	"testing"
)

// referenceSequence is the classic demonstration string used across the
// policy tests.
var referenceSequence = []int{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5}

// TestLRUFixture pins the hand-derived trace for the classic sequence
// with 3 frames: 10 faults, hits only on the two re-references of 1 and 2
// right after 5 is loaded, final frames [3 4 5].
func TestLRUFixture(t *testing.T) {
	lru := NewLRUPolicy(3)

	result, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.FaultCount != 10 {
		t.Errorf("Expected 10 faults, got %d", result.FaultCount)
	}

	wantFinal := []int{3, 4, 5}
	for i, page := range wantFinal {
		if result.FinalFrameState[i] != page {
			t.Errorf("Final frame %d: expected page %d, got %d", i, page, result.FinalFrameState[i])
		}
	}

	wantFaults := []bool{true, true, true, true, true, true, true, false, false, true, true, true}
	for i, want := range wantFaults {
		if result.History[i].Fault != want {
			t.Errorf("Step %d: expected fault=%v, got %v", i, want, result.History[i].Fault)
		}
	}
}

// TestLRUEvictionOrder tests that the victim is always the least recently
// referenced page, counting hits as references.
func TestLRUEvictionOrder(t *testing.T) {
	lru := NewLRUPolicy(2)

	// 1 is re-referenced before 3 arrives, so 2 must be the victim.
	result, err := lru.Simulate([]int{1, 2, 1, 3})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if contains(result.FinalFrameState, 2) {
		t.Error("Page 2 should have been evicted")
	}
	if !contains(result.FinalFrameState, 1) {
		t.Error("Page 1 was refreshed by its hit and should still be resident")
	}
	if !contains(result.FinalFrameState, 3) {
		t.Error("Page 3 should be resident")
	}
}

// TestLRUHistoryComplete tests that the history covers every reference
// and replays cleanly
func TestLRUHistoryComplete(t *testing.T) {
	lru := NewLRUPolicy(3)

	result, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if len(result.History) != len(referenceSequence) {
		t.Errorf("Expected %d history entries, got %d", len(referenceSequence), len(result.History))
	}

	if err := result.Replay(); err != nil {
		t.Errorf("History should replay cleanly: %v", err)
	}
}

// TestLRUFirstOccurrenceFaults tests that the first reference to every
// page is always a fault.
func TestLRUFirstOccurrenceFaults(t *testing.T) {
	lru := NewLRUPolicy(3)

	result, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	seen := make(map[int]bool)
	for i, rec := range result.History {
		if !seen[rec.PageAccessed] && !rec.Fault {
			t.Errorf("Step %d: first occurrence of page %d must fault", i, rec.PageAccessed)
		}
		seen[rec.PageAccessed] = true
	}
}

// TestLRUEnoughFrames tests that with frames >= distinct pages every page
// faults exactly once.
func TestLRUEnoughFrames(t *testing.T) {
	lru := NewLRUPolicy(5)

	result, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.FaultCount != 5 {
		t.Errorf("Expected 5 faults (one per distinct page), got %d", result.FaultCount)
	}
	if result.Evictions() != 0 {
		t.Errorf("Expected no evictions, got %d", result.Evictions())
	}
}

// TestLRUDeterminism tests that identical inputs yield identical results
func TestLRUDeterminism(t *testing.T) {
	lru := NewLRUPolicy(3)

	first, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	second, err := lru.Simulate(referenceSequence)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if first.FaultCount != second.FaultCount {
		t.Errorf("Fault counts differ: %d vs %d", first.FaultCount, second.FaultCount)
	}
	for i := range first.History {
		if first.History[i].Fault != second.History[i].Fault {
			t.Errorf("Step %d: fault flags differ between runs", i)
		}
		for f := range first.History[i].FrameState {
			if first.History[i].FrameState[f] != second.History[i].FrameState[f] {
				t.Errorf("Step %d frame %d: snapshots differ between runs", i, f)
			}
		}
	}
}

// TestLRUReuse tests that an instance resets fully between runs
func TestLRUReuse(t *testing.T) {
	lru := NewLRUPolicy(2)

	if _, err := lru.Simulate([]int{1, 2, 3, 4}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// The second run must not see any residue of the first.
	result, err := lru.Simulate([]int{9})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if result.FaultCount != 1 {
		t.Errorf("Expected 1 fault on a fresh run, got %d", result.FaultCount)
	}
	if result.FinalFrameState[0] != 9 || result.FinalFrameState[1] != EmptyPage {
		t.Errorf("Unexpected final state %v", result.FinalFrameState)
	}
}

// TestLRUEmptySequence tests the zero-length input edge case
func TestLRUEmptySequence(t *testing.T) {
	lru := NewLRUPolicy(3)

	result, err := lru.Simulate(nil)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if result.FaultCount != 0 {
		t.Errorf("Expected 0 faults, got %d", result.FaultCount)
	}
	if len(result.History) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(result.History))
	}
	if result.FaultRate() != 0 {
		t.Errorf("Fault rate of an empty run must be 0, got %g", result.FaultRate())
	}
	for i, p := range result.FinalFrameState {
		if p != EmptyPage {
			t.Errorf("Frame %d should be empty, got %d", i, p)
		}
	}
}

// TestLRUInvalidInput tests structural validation before any mutation
func TestLRUInvalidInput(t *testing.T) {
	lru := NewLRUPolicy(0)
	if _, err := lru.Simulate([]int{1}); !IsErrorCode(err, ErrCodeInvalidFrameCount) {
		t.Errorf("Expected ErrCodeInvalidFrameCount, got %v", err)
	}

	lru = NewLRUPolicy(3)
	if _, err := lru.Simulate([]int{1, -1, 2}); !IsErrorCode(err, ErrCodeInvalidReference) {
		t.Errorf("Expected ErrCodeInvalidReference, got %v", err)
	}
}
