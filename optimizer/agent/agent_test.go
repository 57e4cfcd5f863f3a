package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
)

func circle(radius float64, n int) []vector.Vector2 {
	res := make([]vector.Vector2, n)

	for i := range res {
		a := 2 * math.Pi * float64(i) / float64(n)
		res[i] = vector.MakeVector2(radius*math.Cos(a), radius*math.Sin(a))
	}

	return res
}

func ringEnvironment() Environment {
	return Environment{
		Track:          track.MakeTrack(circle(50, 64), circle(40, 64)),
		Index:          pathindex.NewQuadtree(circle(45, 64)),
		Physics:        physics.DefaultConfig(),
		Recommendation: DefaultRecommendationConfig(),
	}
}

var allActions = func() map[state.Action]bool {
	res := make(map[state.Action]bool)
	for throttle := -1; throttle <= 1; throttle++ {
		for steer := -1; steer <= 1; steer++ {
			res[state.Action{Throttle: throttle, Steer: steer}] = true
		}
	}
	return res
}()

// heading along the ring, counter clockwise
func spawn() state.VehicleState {
	return state.MakeVehicleState(vector.MakeVector2(45, 0), 180)
}

func TestAtRestOnTrack(t *testing.T) {
	a := MakeAgent(ringEnvironment(), spawn(), 1)

	assert.False(t, a.IsOffTrack())
	assert.Equal(t, 0.0, a.OffTrackRatio(0, 0))
	assert.ElementsMatch(t, []state.Action{state.ActionAccelerate, state.ActionIdle}, a.Candidates())
}

func TestStationaryFallback(t *testing.T) {
	a := MakeAgent(ringEnvironment(), state.MakeVehicleState(vector.MakeNullVector2(), 0), 1)

	assert.True(t, a.IsOffTrack())
	assert.Equal(t, 1.0, a.OffTrackRatio(0, 0))
	assert.Equal(t, []state.Action{state.ActionAccelerate}, a.Candidates())
	assert.Equal(t, state.ActionAccelerate, a.Decide())
}

func TestHeadingOutOfTrackBrakes(t *testing.T) {
	start := state.MakeVehicleState(vector.MakeVector2(48, 0), 90)
	start.Speed = 30

	a := MakeAgent(ringEnvironment(), start, 1)

	braking := false
	for _, candidate := range a.Candidates() {
		assert.True(t, allActions[candidate], candidate)
		braking = braking || candidate.IsBraking()
	}

	assert.True(t, braking)
}

func TestDecideIsReproducible(t *testing.T) {
	env := ringEnvironment()

	drive := func(seed int64) []state.VehicleState {
		a := MakeAgent(env, spawn(), seed)
		res := make([]state.VehicleState, 0)

		for i := 0; i < 150; i++ {
			if i%5 == 0 {
				a.SetAction(a.Decide())
			}
			a.Step()
			res = append(res, a.State())
		}

		return res
	}

	assert.Equal(t, drive(7), drive(7))
}

func TestCandidatesAreEnumerated(t *testing.T) {
	a := MakeAgent(ringEnvironment(), spawn(), 3)

	for i := 0; i < 300 && !a.IsOffTrack(); i++ {
		if i%5 == 0 {
			candidates := a.Candidates()
			assert.NotEmpty(t, candidates)
			for _, candidate := range candidates {
				assert.True(t, allActions[candidate], candidate)
			}
			a.SetAction(a.Decide())
		}
		a.Step()
	}
}

func TestAgentsHaveDistinctIdentities(t *testing.T) {
	env := ringEnvironment()

	a := MakeAgent(env, spawn(), 0)
	b := MakeAgent(env, spawn(), 0)

	assert.NotEqual(t, a.GetId(), b.GetId())
	assert.Equal(t, spawn(), a.State())
	assert.Equal(t, state.ActionIdle, a.Action())
}

// a straight lane along y = 50 inside a wide square
func laneEnvironment() Environment {
	outer := []vector.Vector2{
		vector.MakeVector2(-100, -100),
		vector.MakeVector2(100, -100),
		vector.MakeVector2(100, 100),
		vector.MakeVector2(-100, 100),
	}
	inner := []vector.Vector2{
		vector.MakeVector2(-1, -1),
		vector.MakeVector2(1, -1),
		vector.MakeVector2(1, 1),
		vector.MakeVector2(-1, 1),
	}

	return Environment{
		Track:          track.MakeTrack(outer, inner),
		Index:          pathindex.NewQuadtree(pathindex.Path{vector.MakeVector2(-100, 50), vector.MakeVector2(100, 50)}),
		Physics:        physics.DefaultConfig(),
		Recommendation: DefaultRecommendationConfig(),
	}
}

func moving(x, y, bearing, speed float64) state.VehicleState {
	s := state.MakeVehicleState(vector.MakeVector2(x, y), bearing)
	s.Speed = speed

	return s
}

func TestRecommendSteering(t *testing.T) {
	insensitive := ringEnvironment()
	insensitive.Recommendation.SteeringSensitivity = 1e6

	examples := []struct {
		Name  string
		Env   Environment
		Start state.VehicleState
		Left  bool
		Right bool
	}{
		{Name: "counter clockwise turns inward", Env: ringEnvironment(), Start: moving(45, 0, 180, 15), Right: true},
		{Name: "clockwise turns inward", Env: ringEnvironment(), Start: moving(45, 0, 0, 15), Left: true},
		{Name: "at rest", Env: ringEnvironment(), Start: spawn()},
		{Name: "centred on a straight", Env: laneEnvironment(), Start: moving(-50, 50, 90, 15)},
		{Name: "below sensitivity", Env: insensitive, Start: moving(45, 0, 180, 15)},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			a := MakeAgent(example.Env, example.Start, 1)

			left, right := a.recommendSteering()
			assert.Equal(t, example.Left, left, "left")
			assert.Equal(t, example.Right, right, "right")

			candidates := a.Candidates()
			for _, candidate := range candidates {
				if candidate.Steer == -1 {
					assert.True(t, left, candidate)
				}
				if candidate.Steer == 1 {
					assert.True(t, right, candidate)
				}
			}

			for steer, recommended := range map[int]bool{-1: left, 1: right} {
				if !recommended {
					continue
				}

				if a.leavesTrack(0, float64(steer)) {
					assert.Contains(t, candidates, state.Action{Throttle: -1, Steer: steer})
				} else {
					assert.Contains(t, candidates, state.Action{Throttle: 0, Steer: steer})
					assert.Contains(t, candidates, state.Action{Throttle: 1, Steer: steer})
				}
			}
		})
	}
}
