package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

// Motorcycle model integrated with forward Euler.
//
// The longitudinal force is the engine force, capped by traction and
// inversely proportional to speed (constant power), minus aerodynamic drag
// and rolling resistance. Braking replaces the engine force entirely.
//
// Steering does not set the heading directly: the steer input feeds an
// angular rate accumulator (TurnAngle) which decays geometrically and is
// integrated into the bearing. Steering authority is null below
// MinSteeringSpeed, ramps up to FullSteeringSpeed, and shrinks at high speed
// through SteeringIntensity.

const (
	AirDensity = 1.225
	Gravity    = 9.81

	// StepTime is the duration of one rollout physics step
	StepTime = 1.0 / 30.0

	minDrivingSpeed = 0.1
)

type Config struct {
	EnginePower                  float64 `json:"enginepower"`
	MaxTractionForce             float64 `json:"maxtractionforce"`
	BrakingForce                 float64 `json:"brakingforce"`
	Mass                         float64 `json:"mass"`
	DragCoefficient              float64 `json:"dragcoefficient"`
	FrontalArea                  float64 `json:"frontalarea"`
	RollingResistanceCoefficient float64 `json:"rollingresistancecoefficient"`
	TurnRate                     float64 `json:"turnrate"`
	SteeringDecay                float64 `json:"steeringdecay"`
	MinSteeringSpeed             float64 `json:"minsteeringspeed"`
	FullSteeringSpeed            float64 `json:"fullsteeringspeed"`
	SteeringIntensity            float64 `json:"steeringintensity"`
}

func DefaultConfig() Config {
	return Config{
		EnginePower:                  150000,
		MaxTractionForce:             7000,
		BrakingForce:                 8000,
		Mass:                         200,
		DragCoefficient:              0.6,
		FrontalArea:                  0.48,
		RollingResistanceCoefficient: 0.012,
		TurnRate:                     100,
		SteeringDecay:                0.9,
		MinSteeringSpeed:             0.5,
		FullSteeringSpeed:            5,
		SteeringIntensity:            0.5,
	}
}

// Step advances s by dt under the given throttle and steer, both in [-1, 1].
// It is pure: the same inputs always produce the same state.
func Step(s state.VehicleState, throttle float64, steer float64, dt float64, config Config) state.VehicleState {
	drivingForce := DrivingForce(s.Speed, config)
	resistance := ResistanceForce(s.Speed, config)

	netForce := throttle*drivingForce - resistance
	if throttle < 0 {
		netForce = -config.BrakingForce - resistance
	}

	s.Speed += netForce / config.Mass * dt
	s.Speed = math.Max(0, s.Speed)

	s.TurnAngle += steer * config.TurnRate * SteeringMultiplier(s.Speed, config) * dt
	s.TurnAngle *= math.Pow(config.SteeringDecay, dt)

	s.Bearing += s.TurnAngle * dt

	s.Position = s.Position.Add(Forward(s.Bearing).MultScalar(s.Speed * dt))

	return s
}

func StepAction(s state.VehicleState, action state.Action, dt float64, config Config) state.VehicleState {
	return Step(s, float64(action.Throttle), float64(action.Steer), dt, config)
}

func DrivingForce(speed float64, config Config) float64 {
	return math.Min(config.MaxTractionForce, config.EnginePower/math.Max(speed, minDrivingSpeed))
}

func ResistanceForce(speed float64, config Config) float64 {
	drag := 0.5 * AirDensity * config.DragCoefficient * config.FrontalArea * speed * speed
	rolling := config.RollingResistanceCoefficient * config.Mass * Gravity

	return drag + rolling
}

func SteeringMultiplier(speed float64, config Config) float64 {
	if speed < config.MinSteeringSpeed {
		return 0
	}

	reduction := 1.0 / (1.0 + (speed/config.FullSteeringSpeed)*config.SteeringIntensity)

	span := config.FullSteeringSpeed - config.MinSteeringSpeed
	if span <= 0 {
		return reduction
	}

	return reduction * number.Clamp01((speed-config.MinSteeringSpeed)/span)
}

// TopSpeed is the speed where engine power equals aerodynamic drag
func TopSpeed(config Config) float64 {
	return math.Cbrt(config.EnginePower / (0.5 * AirDensity * config.DragCoefficient * config.FrontalArea))
}

// Forward is the unit heading vector of a bearing in degrees
func Forward(bearing float64) vector.Vector2 {
	f := mgl64.Rotate2D(mgl64.DegToRad(bearing - 90)).Mul2x1(mgl64.Vec2{1, 0})

	return vector.MakeVector2(f.X(), f.Y())
}

// BearingFromDirection is the inverse of Forward
func BearingFromDirection(direction vector.Vector2) float64 {
	return number.RadianToDegree(math.Atan2(direction.GetY(), direction.GetX())) + 90
}
