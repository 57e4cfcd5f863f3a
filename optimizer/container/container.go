package container

import (
	"github.com/bytearena/raceline/optimizer/agent"
	"github.com/bytearena/raceline/optimizer/state"
)

// DefaultTriggerRadius is the distance under which a checkpoint counts as reached
const DefaultTriggerRadius = 5.0

// AgentContainer runs one agent through one segment and records its trace
type AgentContainer struct {
	agent         *agent.Agent
	segment       state.Segment
	triggerRadius float64

	trace state.Trace
	steps int

	valid      bool
	done       bool
	passedGoal bool
	goalStep   int
	handoff    state.VehicleState
}

func NewAgentContainer(a *agent.Agent, segment state.Segment, triggerRadius float64) *AgentContainer {
	if triggerRadius <= 0 {
		triggerRadius = DefaultTriggerRadius
	}

	return &AgentContainer{
		agent:         a,
		segment:       segment,
		triggerRadius: triggerRadius,
		trace:         make(state.Trace, 0, 256),
		valid:         true,
	}
}

// Step advances the agent by one physics step, re-deciding its action first
// when decide is set
func (cnt *AgentContainer) Step(decide bool) {
	if !cnt.ShouldRun() {
		return
	}

	if decide {
		cnt.agent.SetAction(cnt.agent.Decide())
	}

	action := cnt.agent.Action()
	cnt.agent.Step()
	cnt.steps++

	current := cnt.agent.State()
	cnt.trace = append(cnt.trace, state.TraceSample{
		Position: current.Position,
		Bearing:  current.Bearing,
		Action:   action,
	})

	if cnt.agent.IsOffTrack() {
		cnt.valid = false
		return
	}

	if !cnt.passedGoal && current.Position.DistanceTo(cnt.segment.Goal.Position) < cnt.triggerRadius {
		cnt.passedGoal = true
		cnt.goalStep = cnt.steps
		cnt.handoff = current
	}

	if cnt.passedGoal && current.Position.DistanceTo(cnt.segment.Validate.Position) < cnt.triggerRadius {
		cnt.done = true
	}
}

func (cnt *AgentContainer) ShouldRun() bool {
	return cnt.valid && !cnt.done
}

func (cnt *AgentContainer) IsValid() bool {
	return cnt.valid
}

// IsCompleted is true once the validate checkpoint was reached after the goal
func (cnt *AgentContainer) IsCompleted() bool {
	return cnt.valid && cnt.done
}

func (cnt *AgentContainer) PassedGoal() bool {
	return cnt.passedGoal
}

func (cnt *AgentContainer) Steps() int {
	return cnt.steps
}

func (cnt *AgentContainer) Agent() *agent.Agent {
	return cnt.agent
}

func (cnt *AgentContainer) Trace() state.Trace {
	return cnt.trace
}

// Result is only meaningful for a completed container
func (cnt *AgentContainer) Result() *state.SegmentResult {
	if !cnt.IsCompleted() {
		return nil
	}

	return &state.SegmentResult{
		Segment:  cnt.segment.Index,
		Trace:    cnt.trace.Clone(),
		Steps:    cnt.steps,
		Handoff:  cnt.handoff,
		GoalStep: cnt.goalStep,
	}
}
