package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

func TestStepIsDeterministic(t *testing.T) {
	config := DefaultConfig()
	initial := state.VehicleState{
		Position:  vector.MakeVector2(12.5, -3.25),
		Bearing:   37,
		Speed:     14.2,
		TurnAngle: -8.5,
	}

	first := Step(initial, 1, -1, StepTime, config)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Step(initial, 1, -1, StepTime, config))
	}

	// the input state is a value and is left untouched
	assert.Equal(t, 14.2, initial.Speed)
}

func TestStepAccelerates(t *testing.T) {
	config := DefaultConfig()
	s := state.MakeVehicleState(vector.MakeNullVector2(), 90)

	s = Step(s, 1, 0, StepTime, config)

	// at rest the driving force is capped by traction
	expected := (config.MaxTractionForce - ResistanceForce(0, config)) / config.Mass * StepTime
	assert.InDelta(t, expected, s.Speed, 1e-12)

	// bearing 90 points towards +x
	assert.InDelta(t, expected*StepTime, s.Position.GetX(), 1e-12)
	assert.InDelta(t, 0, s.Position.GetY(), 1e-12)
	assert.Equal(t, 0.0, s.TurnAngle)
}

func TestStepBrakingClampsSpeed(t *testing.T) {
	config := DefaultConfig()
	s := state.VehicleState{Speed: 0.5, Bearing: 0}

	// braking overrides driving force, even with a tiny speed
	s = Step(s, -1, 0, StepTime, config)
	assert.Equal(t, 0.0, s.Speed)

	// resistance alone never makes speed negative
	s = Step(s, 0, 0, StepTime, config)
	assert.Equal(t, 0.0, s.Speed)
}

func TestStepSteering(t *testing.T) {
	config := DefaultConfig()

	t.Run("no steering below min steering speed", func(t *testing.T) {
		s := state.VehicleState{Speed: 0}
		s = Step(s, 0, 1, StepTime, config)
		assert.Equal(t, 0.0, s.TurnAngle)
		assert.Equal(t, 0.0, s.Bearing)
	})

	t.Run("turn angle accumulates then decays", func(t *testing.T) {
		s := state.VehicleState{Speed: 10}
		s = Step(s, 0, 1, StepTime, config)

		multiplier := SteeringMultiplier(s.Speed, config)
		expected := config.TurnRate * multiplier * StepTime * math.Pow(config.SteeringDecay, StepTime)

		assert.InDelta(t, expected, s.TurnAngle, 1e-12)
		assert.InDelta(t, expected*StepTime, s.Bearing, 1e-12)

		released := Step(s, 0, 0, StepTime, config)
		assert.InDelta(t, s.TurnAngle*math.Pow(config.SteeringDecay, StepTime), released.TurnAngle, 1e-12)
	})

	t.Run("left is negative", func(t *testing.T) {
		s := state.VehicleState{Speed: 10, Bearing: 90}
		s = Step(s, 0, -1, StepTime, config)
		assert.True(t, s.Bearing < 90)
	})
}

func TestSteeringMultiplier(t *testing.T) {
	config := DefaultConfig()

	examples := []struct {
		Name     string
		Speed    float64
		Expected float64
	}{
		{Name: "stopped", Speed: 0, Expected: 0},
		{Name: "just below min", Speed: 0.49, Expected: 0},
		{Name: "at min", Speed: 0.5, Expected: 0},
		{Name: "half ramp", Speed: 2.75, Expected: 1 / (1 + 2.75/5*0.5) * 0.5},
		{Name: "full", Speed: 5, Expected: 1 / 1.5},
		{Name: "fast", Speed: 50, Expected: 1 / 6.0},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			assert.InDelta(t, example.Expected, SteeringMultiplier(example.Speed, config), 1e-12)
		})
	}
}

func TestTopSpeed(t *testing.T) {
	config := DefaultConfig()
	top := TopSpeed(config)

	assert.InDelta(t, 94.739, top, 0.001)

	// at top speed, engine power is spent on drag
	drag := 0.5 * AirDensity * config.DragCoefficient * config.FrontalArea * top * top
	assert.InDelta(t, config.EnginePower, drag*top, 1e-6)
}

func TestForwardAndBearing(t *testing.T) {
	examples := []struct {
		Bearing  float64
		Expected vector.Vector2
	}{
		{Bearing: 0, Expected: vector.MakeVector2(0, -1)},
		{Bearing: 90, Expected: vector.MakeVector2(1, 0)},
		{Bearing: 180, Expected: vector.MakeVector2(0, 1)},
		{Bearing: 270, Expected: vector.MakeVector2(-1, 0)},
	}

	for _, example := range examples {
		forward := Forward(example.Bearing)
		assert.InDelta(t, example.Expected.GetX(), forward.GetX(), 1e-12)
		assert.InDelta(t, example.Expected.GetY(), forward.GetY(), 1e-12)

		back := Forward(BearingFromDirection(forward))
		assert.InDelta(t, forward.GetX(), back.GetX(), 1e-12)
		assert.InDelta(t, forward.GetY(), back.GetY(), 1e-12)
	}
}
