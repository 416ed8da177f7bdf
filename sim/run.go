package sim

import "time"

// Run is the pure entry point for one simulation: build the named policy,
// drive it over the sequence, and return the result. No state survives the
// call. A nil metrics tracker disables recording.
func Run(policyName string, frameCount int, sequence []int, metrics *Metrics) (*SimulationResult, error) {
	policy, err := NewPolicy(policyName, frameCount)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := policy.Simulate(sequence)
	if err != nil {
		return nil, err
	}

	if metrics != nil {
		metrics.RecordRun(result, time.Since(start))
	}
	return result, nil
}
