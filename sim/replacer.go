package sim

// Policy interface for page replacement policies.
// A policy owns its frame table and recency state for the duration of a
// run; Simulate resets everything, so instances are reusable across
// independent sequences.
type Policy interface {
	// Name returns the policy identifier ("lru", "optimal")
	Name() string

	// Simulate drives the policy over the full reference sequence in one
	// synchronous pass and returns the fault count, final frame contents
	// and the ordered step trace.
	Simulate(sequence []int) (*SimulationResult, error)
}

// Policy identifiers accepted by NewPolicy.
const (
	PolicyLRU     = "lru"
	PolicyOptimal = "optimal"
)

// NewPolicy creates a replacement policy by name
func NewPolicy(name string, frameCount int) (Policy, error) {
	if frameCount <= 0 {
		return nil, ErrInvalidFrameCount("NewPolicy", frameCount)
	}
	switch name {
	case PolicyLRU:
		return NewLRUPolicy(frameCount), nil
	case PolicyOptimal:
		return NewOptimalPolicy(frameCount), nil
	default:
		return nil, ErrUnknownPolicy("NewPolicy", name)
	}
}

// validateSequence rejects structurally invalid input before any mutation.
// Negative identifiers are reserved for the empty sentinel.
func validateSequence(op string, sequence []int) error {
	for i, page := range sequence {
		if page < 0 {
			return ErrInvalidReference(op, i, page)
		}
	}
	return nil
}
