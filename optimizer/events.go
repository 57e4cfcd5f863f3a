package optimizer

import "github.com/bytearena/raceline/optimizer/state"

type EventLog struct{ Value string }
type EventDebug struct{ Value string }
type EventError struct{ Err error }
type EventWarn struct{ Err error }

type EventSegmentStart struct {
	Segment Segment
	Attempt int
}

type EventSegmentDone struct {
	Segment Segment
	Result  *state.SegmentResult
	// number of segments solved so far
	Solved int
}

type EventClose struct{}
