package state

import (
	"fmt"

	"github.com/bytearena/raceline/common/utils/vector"
)

// VehicleState is the kinematic state advanced by the physics kernel.
//
// Bearing is a compass-like heading in degrees: 0 points towards -y, 90
// towards +x. TurnAngle is the angular rate accumulator, in degrees per
// second, integrated into Bearing at every step.
type VehicleState struct {
	Position  vector.Vector2
	Bearing   float64
	Speed     float64
	TurnAngle float64
}

func MakeVehicleState(position vector.Vector2, bearing float64) VehicleState {
	return VehicleState{
		Position: position,
		Bearing:  bearing,
	}
}

func (s VehicleState) String() string {
	return fmt.Sprintf("<VehicleState %s bearing=%.3f speed=%.3f turn=%.3f>", s.Position, s.Bearing, s.Speed, s.TurnAngle)
}

// Action is a discrete control input; both components are in {-1, 0, 1}
type Action struct {
	Throttle int
	Steer    int
}

var (
	ActionAccelerate = Action{Throttle: 1, Steer: 0}
	ActionIdle       = Action{Throttle: 0, Steer: 0}
	ActionBrake      = Action{Throttle: -1, Steer: 0}
)

func (a Action) IsBraking() bool {
	return a.Throttle < 0
}
