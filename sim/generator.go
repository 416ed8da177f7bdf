package sim

import (
	"math/rand"
	"time"
)

// Default shape of process-derived sequences.
const (
	processSequenceLength = 30
	minProcessPages       = 4
	maxProcessPages       = 10
)

// SequenceGenerator produces synthetic reference sequences.
// All randomness flows through one seeded source, so a fixed seed yields
// the same sequence every time; the core policies stay deterministic and
// the generator carries the only randomness in the repository.
type SequenceGenerator struct {
	rng *rand.Rand
}

// NewSequenceGenerator creates a generator from a seed.
// A seed of 0 falls back to the current time.
func NewSequenceGenerator(seed int64) *SequenceGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SequenceGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Uniform generates length references drawn uniformly from [1, maxPage].
func (g *SequenceGenerator) Uniform(maxPage, length int) []int {
	sequence := make([]int, length)
	for i := range sequence {
		sequence[i] = 1 + g.rng.Intn(maxPage)
	}
	return sequence
}

// LocalityBiased generates a sequence of references over pages
// [1, numPages] where each access hits a small hot set with probability
// localityFactor and otherwise falls through to the cold pages, with the
// occasional brand-new page late in the sequence to force extra faults.
func (g *SequenceGenerator) LocalityBiased(numPages, length int, localityFactor float64) []int {
	hotCount := numPages
	if hotCount > 5 {
		hotCount = 5
	}

	sequence := make([]int, 0, length)
	for i := 0; i < length; i++ {
		if g.rng.Float64() < localityFactor {
			sequence = append(sequence, 1+g.rng.Intn(hotCount))
			continue
		}

		if i > 20 && g.rng.Float64() < 0.3 {
			// Introduce a page never seen before.
			sequence = append(sequence, numPages+1+countDistinct(sequence))
		} else if hotCount < numPages {
			sequence = append(sequence, hotCount+1+g.rng.Intn(numPages-hotCount))
		} else {
			sequence = append(sequence, 1+g.rng.Intn(numPages))
		}
	}
	return sequence
}

// FromProcess synthesizes a reference sequence from a live process's
// memory footprint. The page universe scales with resident memory, and
// larger processes get a stronger locality bias.
func (g *SequenceGenerator) FromProcess(proc ProcessInfo) []int {
	numPages := int(proc.MemoryMB / 50)
	if numPages < minProcessPages {
		numPages = minProcessPages
	}
	if numPages > maxProcessPages {
		numPages = maxProcessPages
	}

	localityFactor := 0.4 + proc.MemoryMB/1000
	if localityFactor < 0.2 {
		localityFactor = 0.2
	}
	if localityFactor > 0.8 {
		localityFactor = 0.8
	}

	return g.LocalityBiased(numPages, processSequenceLength, localityFactor)
}

func countDistinct(sequence []int) int {
	seen := make(map[int]bool, len(sequence))
	for _, p := range sequence {
		seen[p] = true
	}
	return len(seen)
}
