package sim

import "sort"

// ProcessInfo describes one running process's memory footprint.
// It is the raw material FromProcess turns into a reference sequence.
type ProcessInfo struct {
	PID      int
	Name     string
	MemoryMB float64
}

// minProcessMemoryMB filters out processes too small to be interesting.
const minProcessMemoryMB = 1.0

// sortByMemory orders processes by resident memory, largest first.
func sortByMemory(processes []ProcessInfo) {
	sort.Slice(processes, func(i, j int) bool {
		return processes[i].MemoryMB > processes[j].MemoryMB
	})
}
