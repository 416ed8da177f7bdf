package sim

import "fmt"

// StepRecord is the audit entry for one processed reference.
// FrameState is the snapshot taken before the step's mutation, i.e. the
// state the hit/fault decision was made against.
type StepRecord struct {
	PageAccessed int
	FrameState   []int
	Fault        bool
}

// SimulationResult is the complete outcome of one simulation run.
type SimulationResult struct {
	Policy          string
	FrameCount      int
	FaultCount      int
	FinalFrameState []int
	History         []StepRecord
}

// References returns the number of references processed.
func (r *SimulationResult) References() int {
	return len(r.History)
}

// Hits returns the number of references that did not fault.
func (r *SimulationResult) Hits() int {
	return len(r.History) - r.FaultCount
}

// FaultRate returns the fraction of references that faulted.
// An empty run has a fault rate of 0; the division is guarded.
func (r *SimulationResult) FaultRate() float64 {
	if len(r.History) == 0 {
		return 0
	}
	return float64(r.FaultCount) / float64(len(r.History))
}

// Evictions returns how many faults required removing a resident page.
// Frames fill before any eviction happens and never empty again, so the
// initial fills equal the occupied slots of the final state.
func (r *SimulationResult) Evictions() int {
	occupied := 0
	for _, p := range r.FinalFrameState {
		if p != EmptyPage {
			occupied++
		}
	}
	return r.FaultCount - occupied
}

// Replay walks the recorded history and verifies that it is a faithful
// state-transition log: each snapshot follows from the previous one under
// the recorded hit/fault outcome, no page occupies two frames, occupancy
// never exceeds the frame count, and the final state matches the last
// transition. For the known policies every eviction is additionally checked
// against the victim the policy's rule derives from the history itself.
// Returns nil if the history is consistent.
func (r *SimulationResult) Replay() error {
	const op = "Replay"

	pages := make([]int, len(r.History))
	for i, rec := range r.History {
		pages[i] = rec.PageAccessed
	}

	faults := 0
	for i, rec := range r.History {
		if len(rec.FrameState) != r.FrameCount {
			return ErrTraceCorrupted(op, fmt.Sprintf("step %d: snapshot has %d frames, want %d", i, len(rec.FrameState), r.FrameCount))
		}
		if err := checkNoDuplicates(rec.FrameState, i); err != nil {
			return err
		}

		resident := contains(rec.FrameState, rec.PageAccessed)
		if rec.Fault == resident {
			return ErrTraceCorrupted(op, fmt.Sprintf("step %d: fault flag %v disagrees with residency of page %d", i, rec.Fault, rec.PageAccessed))
		}
		if rec.Fault {
			faults++
		}

		next := r.FinalFrameState
		if i+1 < len(r.History) {
			next = r.History[i+1].FrameState
		}
		changed, err := checkTransition(rec, next, i)
		if err != nil {
			return err
		}

		// An eviction must have picked the victim the policy's rule
		// dictates, re-derived from the reference history alone.
		if rec.Fault && !contains(rec.FrameState, EmptyPage) {
			if want, known := expectedVictim(r.Policy, rec.FrameState, pages, i); known && changed != want {
				return ErrTraceCorrupted(op,
					fmt.Sprintf("step %d: fault replaced frame %d, %s evicts frame %d", i, changed, r.Policy, want))
			}
		}
	}

	if faults != r.FaultCount {
		return ErrTraceCorrupted(op, fmt.Sprintf("history contains %d faults, result records %d", faults, r.FaultCount))
	}
	if len(r.History) == 0 {
		for _, p := range r.FinalFrameState {
			if p != EmptyPage {
				return ErrTraceCorrupted(op, "empty run with non-empty final state")
			}
		}
	}
	return nil
}

// checkTransition verifies that next follows from rec under the documented
// rules: hits leave the table untouched; faults place the page in the first
// empty slot, or replace exactly one resident page when the table is full.
// Returns the index of the replaced frame, or -1 for a hit.
func checkTransition(rec StepRecord, next []int, step int) (int, error) {
	const op = "Replay"

	if len(next) != len(rec.FrameState) {
		return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: successor state has %d frames, want %d", step, len(next), len(rec.FrameState)))
	}

	if !rec.Fault {
		for idx := range next {
			if next[idx] != rec.FrameState[idx] {
				return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: hit mutated frame %d", step, idx))
			}
		}
		return -1, nil
	}

	changed := -1
	for idx := range next {
		if next[idx] == rec.FrameState[idx] {
			continue
		}
		if changed != -1 {
			return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: fault mutated frames %d and %d", step, changed, idx))
		}
		changed = idx
	}
	if changed == -1 {
		return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: fault left the table unchanged", step))
	}
	if next[changed] != rec.PageAccessed {
		return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: fault placed page %d, want %d", step, next[changed], rec.PageAccessed))
	}

	// With an empty slot available the fault must use the lowest one.
	for idx, p := range rec.FrameState {
		if p == EmptyPage {
			if changed != idx {
				return -1, ErrTraceCorrupted(op, fmt.Sprintf("step %d: fault used frame %d, first empty is %d", step, changed, idx))
			}
			break
		}
	}
	return changed, nil
}

// expectedVictim re-derives the eviction a policy must make at step i of
// the reference history: LRU evicts the resident page whose last reference
// lies earliest in the past, Optimal the one whose next reference lies
// farthest in the future (never recurring counts as farthest, ties to the
// lowest frame index). Unknown policy names get no victim check.
func expectedVictim(policy string, state, pages []int, i int) (int, bool) {
	switch policy {
	case PolicyLRU:
		victim, oldest := 0, i
		for idx, page := range state {
			last := -1
			for j := i - 1; j >= 0; j-- {
				if pages[j] == page {
					last = j
					break
				}
			}
			if last < oldest {
				oldest = last
				victim = idx
			}
		}
		return victim, true

	case PolicyOptimal:
		victim, farthest := 0, -1
		for idx, page := range state {
			next := len(pages)
			for j := i + 1; j < len(pages); j++ {
				if pages[j] == page {
					next = j
					break
				}
			}
			if next > farthest {
				farthest = next
				victim = idx
			}
		}
		return victim, true
	}
	return 0, false
}

func checkNoDuplicates(state []int, step int) error {
	seen := make(map[int]bool, len(state))
	for _, p := range state {
		if p == EmptyPage {
			continue
		}
		if seen[p] {
			return ErrTraceCorrupted("Replay", fmt.Sprintf("step %d: page %d occupies more than one frame", step, p))
		}
		seen[p] = true
	}
	return nil
}

func contains(state []int, page int) bool {
	for _, p := range state {
		if p == page {
			return true
		}
	}
	return false
}
