package state

import (
	"github.com/bytearena/raceline/common/utils/vector"
)

// TraceSample is recorded once per physics step, after the step
type TraceSample struct {
	Position vector.Vector2
	Bearing  float64
	Action   Action
}

type Trace []TraceSample

func (t Trace) Positions() []vector.Vector2 {
	res := make([]vector.Vector2, len(t))

	for i, sample := range t {
		res[i] = sample.Position
	}

	return res
}

func (t Trace) Clone() Trace {
	res := make(Trace, len(t))
	copy(res, t)

	return res
}

// SegmentResult is the winning rollout of one segment.
//
// Handoff is the state frozen when the goal checkpoint was first reached;
// it is the start state of the next segment. GoalStep is the number of
// samples recorded up to and including that moment.
type SegmentResult struct {
	Segment  int
	Trace    Trace
	Steps    int
	Handoff  VehicleState
	GoalStep int
}

// ChainedTrace is the part of the trace that belongs to the stitched raceline:
// everything after GoalStep is driven again by the next segment.
func (r SegmentResult) ChainedTrace() Trace {
	if r.GoalStep <= 0 || r.GoalStep > len(r.Trace) {
		return r.Trace
	}

	return r.Trace[:r.GoalStep]
}

// ReplayState is one parsed trace line
type ReplayState struct {
	Position vector.Vector2
	Bearing  float64
	Throttle float64
}

// Best returns the result with the fewest steps; the first one wins ties.
// Nil results are skipped.
func Best(results ...*SegmentResult) *SegmentResult {
	var best *SegmentResult

	for _, result := range results {
		if result == nil {
			continue
		}

		if best == nil || result.Steps < best.Steps {
			best = result
		}
	}

	return best
}
