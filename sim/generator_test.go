package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGeneratorDeterminism tests that a fixed seed reproduces sequences
func TestGeneratorDeterminism(t *testing.T) {
	first := NewSequenceGenerator(7).LocalityBiased(10, 50, 0.6)
	second := NewSequenceGenerator(7).LocalityBiased(10, 50, 0.6)

	assert.Equal(t, first, second)

	different := NewSequenceGenerator(8).LocalityBiased(10, 50, 0.6)
	assert.NotEqual(t, first, different)
}

// TestGeneratorUniform tests bounds of uniform sequences
func TestGeneratorUniform(t *testing.T) {
	sequence := NewSequenceGenerator(1).Uniform(10, 200)

	require.Len(t, sequence, 200)
	for _, page := range sequence {
		assert.GreaterOrEqual(t, page, 1)
		assert.LessOrEqual(t, page, 10)
	}
}

// TestGeneratorLocalityBiased tests shape and validity of biased sequences
func TestGeneratorLocalityBiased(t *testing.T) {
	sequence := NewSequenceGenerator(3).LocalityBiased(8, 100, 0.7)

	require.Len(t, sequence, 100)
	for _, page := range sequence {
		assert.Positive(t, page, "generated pages are valid references")
	}

	// With a 0.7 bias the hot set (pages 1..5) should dominate.
	hot := 0
	for _, page := range sequence {
		if page <= 5 {
			hot++
		}
	}
	assert.Greater(t, hot, 50)
}

// TestGeneratorLocalityFull tests the case where every page is hot
func TestGeneratorLocalityFull(t *testing.T) {
	sequence := NewSequenceGenerator(5).LocalityBiased(3, 40, 0.5)

	require.Len(t, sequence, 40)
	for _, page := range sequence {
		assert.Positive(t, page)
	}
}

// TestGeneratorFromProcess tests the memory-to-sequence scaling
func TestGeneratorFromProcess(t *testing.T) {
	small := ProcessInfo{PID: 1, Name: "tiny", MemoryMB: 10}
	large := ProcessInfo{PID: 2, Name: "huge", MemoryMB: 4000}

	smallSeq := NewSequenceGenerator(11).FromProcess(small)
	largeSeq := NewSequenceGenerator(11).FromProcess(large)

	assert.Len(t, smallSeq, processSequenceLength)
	assert.Len(t, largeSeq, processSequenceLength)

	for _, page := range append(smallSeq, largeSeq...) {
		assert.Positive(t, page)
	}

	// The generated sequences must be simulatable as-is.
	_, err := Run(PolicyLRU, 3, largeSeq, nil)
	assert.NoError(t, err)
}

// TestGeneratorSequencesSimulate tests generator output end to end
func TestGeneratorSequencesSimulate(t *testing.T) {
	gen := NewSequenceGenerator(99)

	for i := 0; i < 10; i++ {
		sequence := gen.LocalityBiased(10, 60, 0.5)
		result, err := Run(PolicyOptimal, 4, sequence, nil)
		require.NoError(t, err)
		assert.NoError(t, result.Replay())
	}
}
