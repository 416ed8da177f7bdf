package sim

import (
	"container/list"
)

// lruNode represents a node in the recency list
type lruNode struct {
	page int
}

// LRUPolicy implements LRU (Least Recently Used) replacement.
// Recency is tracked with a doubly-linked list plus a page index: the
// front of the list is the least recently used resident page, the back is
// the most recent. Refreshing an entry and removing an arbitrary entry are
// both O(1).
type LRUPolicy struct {
	frameCount int
	table      *FrameTable
	recency    *list.List
	pageIndex  map[int]*list.Element
}

// NewLRUPolicy creates an LRU policy over the given number of frames.
// frameCount must be positive; Simulate rejects anything else.
func NewLRUPolicy(frameCount int) *LRUPolicy {
	return &LRUPolicy{
		frameCount: frameCount,
		table:      NewFrameTable(frameCount),
		recency:    list.New(),
		pageIndex:  make(map[int]*list.Element),
	}
}

// Name returns the policy identifier
func (lru *LRUPolicy) Name() string {
	return PolicyLRU
}

// Simulate runs the LRU policy over the reference sequence.
// Internal state is reset unconditionally first, so the same instance can
// be reused across independent runs.
func (lru *LRUPolicy) Simulate(sequence []int) (*SimulationResult, error) {
	const op = "LRUPolicy.Simulate"

	if lru.frameCount <= 0 {
		return nil, ErrInvalidFrameCount(op, lru.frameCount)
	}
	if err := validateSequence(op, sequence); err != nil {
		return nil, err
	}

	lru.reset()

	result := &SimulationResult{
		Policy:     PolicyLRU,
		FrameCount: lru.frameCount,
		History:    make([]StepRecord, 0, len(sequence)),
	}

	for _, page := range sequence {
		before := lru.table.Snapshot()
		fault := !lru.table.IsResident(page)

		if fault {
			result.FaultCount++
			if idx, ok := lru.table.FirstEmptySlot(); ok {
				lru.table.Assign(idx, page)
			} else {
				lru.evictOldest(page)
			}
		}
		lru.touch(page)

		result.History = append(result.History, StepRecord{
			PageAccessed: page,
			FrameState:   before,
			Fault:        fault,
		})
	}

	result.FinalFrameState = lru.table.Snapshot()
	return result, nil
}

// reset clears the frame table and the recency tracker
func (lru *LRUPolicy) reset() {
	lru.table.Reset()
	lru.recency.Init()
	lru.pageIndex = make(map[int]*list.Element)
}

// evictOldest replaces the least recently used resident page with page.
// The victim is at the front of the recency list; its recency entry is
// dropped along with its frame.
func (lru *LRUPolicy) evictOldest(page int) {
	oldest := lru.recency.Front()
	victim := oldest.Value.(*lruNode).page

	idx, ok := lru.table.SlotOf(victim)
	if !ok {
		// The recency list only ever holds resident pages.
		panic("lru: recency tracker references a non-resident page")
	}

	lru.recency.Remove(oldest)
	delete(lru.pageIndex, victim)
	lru.table.Assign(idx, page)
}

// touch refreshes the page to most-recently-used. Recency reflects every
// reference, hit or fault.
func (lru *LRUPolicy) touch(page int) {
	if elem, exists := lru.pageIndex[page]; exists {
		lru.recency.MoveToBack(elem)
		return
	}
	elem := lru.recency.PushBack(&lruNode{page: page})
	lru.pageIndex[page] = elem
}
