package state

import (
	"fmt"

	"github.com/bytearena/raceline/common/utils/vector"
)

// Checkpoint is a point of the reference path and its index in the path
type Checkpoint struct {
	PathIndex int
	Position  vector.Vector2
}

// Segment is the (start, goal, validate) checkpoint triple of one round
type Segment struct {
	Index    int
	Start    Checkpoint
	Goal     Checkpoint
	Validate Checkpoint
}

func (s Segment) String() string {
	return fmt.Sprintf("<Segment #%d %s -> %s -> %s>", s.Index, s.Start.Position, s.Goal.Position, s.Validate.Position)
}
