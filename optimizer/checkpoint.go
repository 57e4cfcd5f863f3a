package optimizer

import (
	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/state"
)

type Checkpoint = state.Checkpoint
type Segment = state.Segment

const (
	minSpawnDirection = 0.1
	spawnLookahead    = 20
)

// BuildCheckpoints walks the closed path and emits a checkpoint at the first
// vertex reached at or past each multiple of totalLength/count
func BuildCheckpoints(path pathindex.Path, count int) ([]Checkpoint, error) {
	if count < 3 {
		return nil, errors.Errorf("at least 3 checkpoints are needed, got %d", count)
	}

	n := len(path)
	if n < 2 {
		return nil, errors.Errorf("path needs at least 2 points, got %d", n)
	}

	lengths := make([]float64, n)
	total := 0.0
	for i := range path {
		lengths[i] = path[i].DistanceTo(path.At(i + 1))
		total += lengths[i]
	}

	if number.IsZero(total) {
		return nil, errors.New("path has no length")
	}

	checkpoints := make([]Checkpoint, count)

	accumulated := 0.0
	index := 0
	for k := range checkpoints {
		target := float64(k) * total / float64(count)

		for accumulated < target-1e-9 && index < n {
			accumulated += lengths[index]
			index++
		}

		checkpoints[k] = Checkpoint{
			PathIndex: index % n,
			Position:  path[index%n],
		}
	}

	return checkpoints, nil
}

// SegmentAt is the (c, c+1, c+2) checkpoint triple, modulo the checkpoint count
func SegmentAt(checkpoints []Checkpoint, c int) Segment {
	n := len(checkpoints)

	return Segment{
		Index:    c,
		Start:    checkpoints[c%n],
		Goal:     checkpoints[(c+1)%n],
		Validate: checkpoints[(c+2)%n],
	}
}

// SpawnPose stands at rest on the first path point, heading a few points
// further down the path
func SpawnPose(path pathindex.Path) (state.VehicleState, error) {
	n := len(path)
	if n < 2 {
		return state.VehicleState{}, errors.Errorf("path needs at least 2 points to derive a spawn, got %d", n)
	}

	lookahead := n / spawnLookahead
	if lookahead < 1 {
		lookahead = 1
	}

	direction := path[lookahead].Sub(path[0])
	if direction.Mag() < minSpawnDirection {
		direction = path[1].Sub(path[0])
	}

	if direction.Mag() < minSpawnDirection {
		return state.VehicleState{}, errors.New("path starts with duplicated points, cannot derive a spawn heading")
	}

	return state.MakeVehicleState(path[0], physics.BearingFromDirection(direction)), nil
}
