package sim

import (
	"sort"
)

// OptimalPolicy implements Belady's optimal replacement: on a fault with a
// full table, evict the resident page whose next use lies farthest in the
// future, or that never recurs. It needs the whole sequence up front, so it
// is an offline baseline rather than a practical policy.
type OptimalPolicy struct {
	frameCount int
	table      *FrameTable
}

// NewOptimalPolicy creates an Optimal policy over the given number of frames
func NewOptimalPolicy(frameCount int) *OptimalPolicy {
	return &OptimalPolicy{
		frameCount: frameCount,
		table:      NewFrameTable(frameCount),
	}
}

// Name returns the policy identifier
func (opt *OptimalPolicy) Name() string {
	return PolicyOptimal
}

// Simulate runs the Optimal policy over the reference sequence.
// Internal state is reset unconditionally first.
func (opt *OptimalPolicy) Simulate(sequence []int) (*SimulationResult, error) {
	const op = "OptimalPolicy.Simulate"

	if opt.frameCount <= 0 {
		return nil, ErrInvalidFrameCount(op, opt.frameCount)
	}
	if err := validateSequence(op, sequence); err != nil {
		return nil, err
	}

	opt.table.Reset()

	// Occurrence positions per page, ascending. Turns every next-use
	// lookup during eviction into a binary search instead of a scan of
	// the remaining sequence.
	positions := make(map[int][]int)
	for i, page := range sequence {
		positions[page] = append(positions[page], i)
	}

	result := &SimulationResult{
		Policy:     PolicyOptimal,
		FrameCount: opt.frameCount,
		History:    make([]StepRecord, 0, len(sequence)),
	}

	for i, page := range sequence {
		before := opt.table.Snapshot()
		fault := !opt.table.IsResident(page)

		if fault {
			result.FaultCount++
			if idx, ok := opt.table.FirstEmptySlot(); ok {
				opt.table.Assign(idx, page)
			} else {
				victim := opt.selectVictim(before, positions, i, len(sequence))
				opt.table.Assign(victim, page)
			}
		}

		result.History = append(result.History, StepRecord{
			PageAccessed: page,
			FrameState:   before,
			Fault:        fault,
		})
	}

	result.FinalFrameState = opt.table.Snapshot()
	return result, nil
}

// selectVictim returns the frame index of the resident page with the
// farthest next use after step i. A page that never recurs gets a next use
// of seqLen, beyond any real position. Ties go to the lowest frame index:
// the comparison is strictly-greater over frames in ascending order.
func (opt *OptimalPolicy) selectVictim(state []int, positions map[int][]int, i, seqLen int) int {
	farthest := -1
	victim := 0

	for idx, page := range state {
		occ := positions[page]
		searchIdx := sort.SearchInts(occ, i+1)

		nextUse := seqLen
		if searchIdx < len(occ) {
			nextUse = occ[searchIdx]
		}

		if nextUse > farthest {
			farthest = nextUse
			victim = idx
		}
		if nextUse == seqLen {
			// Nothing can be farther than never.
			break
		}
	}
	return victim
}
