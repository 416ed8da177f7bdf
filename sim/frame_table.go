package sim

import "fmt"

// EmptyPage marks a frame that holds no page. Legitimate page identifiers
// are non-negative, so the sentinel can never collide with a real page.
const EmptyPage = -1

// FrameTable tracks which page occupies each physical frame.
// It only knows what is where; eviction decisions belong to the policies.
type FrameTable struct {
	frames []int
}

// NewFrameTable creates a frame table with the given number of frames,
// all initially empty. The size is fixed for the table's lifetime.
func NewFrameTable(frameCount int) *FrameTable {
	if frameCount < 0 {
		// Policies reject non-positive counts when simulating; a negative
		// count here just produces an unusable zero-frame table.
		frameCount = 0
	}
	ft := &FrameTable{
		frames: make([]int, frameCount),
	}
	ft.Reset()
	return ft
}

// Reset clears every frame back to the empty sentinel.
func (ft *FrameTable) Reset() {
	for i := range ft.frames {
		ft.frames[i] = EmptyPage
	}
}

// Size returns the number of frames.
func (ft *FrameTable) Size() int {
	return len(ft.frames)
}

// IsResident reports whether the page currently occupies some frame.
func (ft *FrameTable) IsResident(page int) bool {
	_, ok := ft.SlotOf(page)
	return ok
}

// SlotOf returns the index of the frame holding the page,
// or false if the page is not resident.
func (ft *FrameTable) SlotOf(page int) (int, bool) {
	for i, p := range ft.frames {
		if p == page {
			return i, true
		}
	}
	return 0, false
}

// FirstEmptySlot returns the lowest-index empty frame, or false if the
// table is full.
func (ft *FrameTable) FirstEmptySlot() (int, bool) {
	return ft.SlotOf(EmptyPage)
}

// Assign places the page into the given frame, overwriting whatever was
// there. An out-of-range index is a programmer error and panics.
func (ft *FrameTable) Assign(index, page int) {
	if index < 0 || index >= len(ft.frames) {
		panic(fmt.Sprintf("frame index %d out of range [0, %d)", index, len(ft.frames)))
	}
	ft.frames[index] = page
}

// Occupied returns the number of frames currently holding a page.
func (ft *FrameTable) Occupied() int {
	count := 0
	for _, p := range ft.frames {
		if p != EmptyPage {
			count++
		}
	}
	return count
}

// Snapshot returns a value copy of the current frame contents.
// The copy never aliases the live table, so later mutation cannot
// retroactively corrupt a recorded history entry.
func (ft *FrameTable) Snapshot() []int {
	snap := make([]int, len(ft.frames))
	copy(snap, ft.frames)
	return snap
}
