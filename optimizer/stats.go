package optimizer

import (
	"fmt"
	"time"
)

// Stats summarizes a run
type Stats struct {
	Attempts       int
	Retries        int
	Backtracks     int
	SegmentsSolved int
	TotalSteps     int
	Elapsed        time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"%d segments solved in %d attempts (%d retries, %d backtracks), %d steps, %s",
		s.SegmentsSolved, s.Attempts, s.Retries, s.Backtracks, s.TotalSteps, s.Elapsed.Round(time.Millisecond),
	)
}
