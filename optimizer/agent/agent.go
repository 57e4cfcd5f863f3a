package agent

import (
	"hash/fnv"
	"math/rand"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
)

const stationarySpeed = 0.1

// Agent is one simulated vehicle of a rollout.
// It is not safe for concurrent use; a worker owns its agents.
type Agent struct {
	id uuid.UUID

	track          track.Track
	index          pathindex.Index
	physics        physics.Config
	recommendation RecommendationConfig
	topSpeed       float64

	state  state.VehicleState
	action state.Action

	rng        *rand.Rand
	candidates []state.Action
}

// Environment is what an agent drives in; its values are owned by the
// worker and never mutated
type Environment struct {
	Track          track.Track
	Index          pathindex.Index
	Physics        physics.Config
	Recommendation RecommendationConfig
}

// MakeAgent builds an agent at start; a zero seed derives one from the
// agent identity and the clock
func MakeAgent(env Environment, start state.VehicleState, seed int64) *Agent {
	id := uuid.Must(uuid.NewV4())

	if seed == 0 {
		seed = SeedFromIdentity(id)
	}

	return &Agent{
		id:             id,
		track:          env.Track,
		index:          env.Index,
		physics:        env.Physics,
		recommendation: env.Recommendation,
		topSpeed:       physics.TopSpeed(env.Physics),
		state:          start,
		action:         state.ActionIdle,
		rng:            rand.New(rand.NewSource(seed)),
		candidates:     make([]state.Action, 0, 6),
	}
}

func SeedFromIdentity(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id.Bytes())

	return int64(h.Sum64()) ^ time.Now().UnixNano()
}

func (a *Agent) GetId() uuid.UUID {
	return a.id
}

func (a *Agent) String() string {
	return "<Agent(" + a.id.String() + ")>"
}

func (a *Agent) State() state.VehicleState {
	return a.state
}

func (a *Agent) Action() state.Action {
	return a.action
}

func (a *Agent) SetAction(action state.Action) {
	a.action = action
}

// Step applies one physics step with the last set action
func (a *Agent) Step() {
	a.state = physics.StepAction(a.state, a.action, physics.StepTime, a.physics)
}

func (a *Agent) IsOffTrack() bool {
	return !a.track.PointInTrack(a.state.Position)
}

// Decide picks the next action among the viable candidates of the current
// state, uniformly at random
func (a *Agent) Decide() state.Action {
	candidates := a.Candidates()

	return candidates[a.rng.Intn(len(candidates))]
}

// Candidates enumerates the viable actions of the current state.
// The returned slice is reused by the next call.
func (a *Agent) Candidates() []state.Action {
	left, right := a.recommendSteering()

	throttle := float64(a.action.Throttle)
	candidates := a.candidates[:0]

	if left {
		candidates = a.appendDirection(candidates, throttle, -1)
	}

	if right {
		candidates = a.appendDirection(candidates, throttle, 1)
	}

	var optimalSteering float64
	switch {
	case left:
		optimalSteering = -a.recommendation.TestInputStrength
	case right:
		optimalSteering = a.recommendation.TestInputStrength
	}

	speedUp := !a.leavesTrack(throttle, optimalSteering) && a.state.Speed < a.topSpeed*a.recommendation.MaxSpeedRatio
	if speedUp {
		candidates = a.appendDirection(candidates, throttle, 0)
	}

	if len(candidates) == 0 {
		if a.state.Speed < stationarySpeed {
			candidates = append(candidates, state.ActionAccelerate)
		} else {
			candidates = append(candidates, state.ActionAccelerate, state.ActionIdle, state.ActionBrake)
		}
	}

	a.candidates = candidates

	return candidates
}

// appendDirection adds braking alone when steering that way leaves the
// track, holding and accelerating otherwise
func (a *Agent) appendDirection(candidates []state.Action, throttle float64, steer int) []state.Action {
	if a.leavesTrack(throttle, float64(steer)) {
		return append(candidates, state.Action{Throttle: -1, Steer: steer})
	}

	if steer == 0 {
		return append(candidates, state.ActionAccelerate, state.ActionIdle)
	}

	return append(candidates,
		state.Action{Throttle: 0, Steer: steer},
		state.Action{Throttle: 1, Steer: steer},
	)
}

// recommendSteering compares the average path deviation of coasting
// straight, left and right
func (a *Agent) recommendSteering() (left bool, right bool) {
	strength := a.recommendation.TestInputStrength
	sensitivity := a.recommendation.SteeringSensitivity

	baseline := a.scenarioDeviation(0)
	leftImprovement := baseline - a.scenarioDeviation(-strength)
	rightImprovement := baseline - a.scenarioDeviation(strength)

	left = leftImprovement > sensitivity && leftImprovement > rightImprovement
	right = rightImprovement > sensitivity && rightImprovement > leftImprovement

	return left, right
}

func (a *Agent) scenarioDeviation(steer float64) float64 {
	steps := a.recommendation.Steps
	if steps <= 0 {
		return 0
	}

	dt := a.recommendation.stepTime()
	s := a.state
	total := 0.0

	for i := 0; i < steps; i++ {
		total += a.index.DistanceToPath(s.Position)
		s = physics.Step(s, 0, steer, dt, a.physics)
	}

	return total / float64(steps)
}

// OffTrackRatio is the fraction of predicted points outside the track
// under the given inputs
func (a *Agent) OffTrackRatio(throttle float64, steer float64) float64 {
	steps := a.recommendation.offTrackSteps()
	if steps <= 0 {
		return 0
	}

	dt := a.recommendation.stepTime()
	s := a.state
	off := 0

	for i := 0; i < steps; i++ {
		s = physics.Step(s, throttle, steer, dt, a.physics)
		if !a.track.PointInTrack(s.Position) {
			off++
		}
	}

	return float64(off) / float64(steps)
}

func (a *Agent) leavesTrack(throttle float64, steer float64) bool {
	return a.OffTrackRatio(throttle, steer) > a.recommendation.OffTrackThreshold
}

// DeriveSeed mixes a base seed with the coordinates of a rollout so that a
// seeded run is reproducible
func DeriveSeed(base int64, parts ...int) int64 {
	h := fnv.New64a()

	var buf [8]byte
	write := func(v uint64) {
		for i := range buf {
			buf[i] = byte(v >> (8 * uint(i)))
		}
		h.Write(buf[:])
	}

	write(uint64(base))
	for _, part := range parts {
		write(uint64(int64(part)))
	}

	seed := int64(h.Sum64())
	if seed == 0 {
		seed = 1
	}

	return seed
}
