package agent

// RecommendationConfig tunes the short-horizon lookahead of Decide
type RecommendationConfig struct {
	// number of lookahead steps per scenario
	Steps int `json:"steps"`
	// minimal average deviation gain for a steering direction to be recommended
	SteeringSensitivity float64 `json:"steeringsensitivity"`
	// steering input of the left/right scenarios
	TestInputStrength float64 `json:"testinputstrength"`
	// fraction of predicted points off track above which only braking is viable
	OffTrackThreshold float64 `json:"offtrackthreshold"`
	// speed-up is only recommended below TopSpeed * MaxSpeedRatio
	MaxSpeedRatio float64 `json:"maxspeedratio"`
	// simulated duration of one scenario, in seconds
	TrajectoryLength float64 `json:"trajectorylength"`
}

const maxOffTrackSteps = 8

func DefaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		Steps:               10,
		SteeringSensitivity: 0.1,
		TestInputStrength:   0.5,
		OffTrackThreshold:   0.25,
		MaxSpeedRatio:       0.8,
		TrajectoryLength:    5,
	}
}

func (c RecommendationConfig) stepTime() float64 {
	return c.TrajectoryLength / float64(c.Steps)
}

func (c RecommendationConfig) offTrackSteps() int {
	if c.Steps < maxOffTrackSteps {
		return c.Steps
	}

	return maxOffTrackSteps
}
