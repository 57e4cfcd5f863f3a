package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer/agent"
	"github.com/bytearena/raceline/optimizer/container"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/worker"
)

// EnvConfigFile names the config file used when none is given
const EnvConfigFile = "RACELINE_CONFIG"

var ErrInvalid = errors.New("invalid configuration")

type RunConfig struct {
	CheckpointCount  int     `json:"checkpointcount"`
	TriggerRadius    float64 `json:"triggerradius"`
	DecisionInterval int     `json:"decisioninterval"`
	BatchSize        int     `json:"batchsize"`
	Workers          int     `json:"workers"`
	MaxRetries       int     `json:"maxretries"`
	// 0 is unbounded
	MaxBacktracks int   `json:"maxbacktracks"`
	MaxIterations int   `json:"maxiterations"`
	JoinTimeoutMs int   `json:"jointimeoutms"`
	Seed          int64 `json:"seed"`
	// "quadtree" or "rtree"
	Index string `json:"index"`
}

type ExportConfig struct {
	TraceFile         string  `json:"tracefile"`
	BinaryFile        string  `json:"binaryfile"`
	SimplifyTolerance float64 `json:"simplifytolerance"`
	ColourWindow      int     `json:"colourwindow"`
}

type Config struct {
	Physics        physics.Config             `json:"physics"`
	Recommendation agent.RecommendationConfig `json:"recommendation"`
	Run            RunConfig                  `json:"run"`
	Export         ExportConfig               `json:"export"`
}

func DefaultConfig() Config {
	return Config{
		Physics:        physics.DefaultConfig(),
		Recommendation: agent.DefaultRecommendationConfig(),
		Run: RunConfig{
			CheckpointCount:  8,
			TriggerRadius:    container.DefaultTriggerRadius,
			DecisionInterval: 5,
			BatchSize:        100,
			Workers:          1,
			MaxRetries:       5,
			MaxBacktracks:    0,
			MaxIterations:    20000,
			JoinTimeoutMs:    1000,
			Index:            pathindex.KindQuadtree,
		},
		Export: ExportConfig{
			SimplifyTolerance: 5,
			ColourWindow:      50,
		},
	}
}

func (c Config) JoinTimeout() time.Duration {
	return time.Duration(c.Run.JoinTimeoutMs) * time.Millisecond
}

// WorkerConfig is the part of the run configuration a worker needs; the seed
// is derived per rollout by the caller
func (c Config) WorkerConfig() worker.Config {
	return worker.Config{
		BatchSize:        c.Run.BatchSize,
		DecisionInterval: c.Run.DecisionInterval,
		MaxIterations:    c.Run.MaxIterations,
		TriggerRadius:    c.Run.TriggerRadius,
		IndexKind:        c.Run.Index,
	}
}

func invalid(field string, format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, field+": "+format, args...)
}

func (c Config) Validate() error {
	run := c.Run

	if run.CheckpointCount < 3 {
		return invalid("run.checkpointcount", "at least 3 checkpoints are needed, got %d", run.CheckpointCount)
	}

	if run.TriggerRadius <= 0 {
		return invalid("run.triggerradius", "must be positive, got %f", run.TriggerRadius)
	}

	if run.DecisionInterval <= 0 {
		return invalid("run.decisioninterval", "must be positive, got %d", run.DecisionInterval)
	}

	if run.BatchSize <= 0 {
		return invalid("run.batchsize", "must be positive, got %d", run.BatchSize)
	}

	if run.Workers <= 0 {
		return invalid("run.workers", "must be positive, got %d", run.Workers)
	}

	if run.MaxRetries < 0 {
		return invalid("run.maxretries", "must not be negative, got %d", run.MaxRetries)
	}

	if run.MaxBacktracks < 0 {
		return invalid("run.maxbacktracks", "must not be negative, got %d", run.MaxBacktracks)
	}

	if run.MaxIterations <= 0 {
		return invalid("run.maxiterations", "must be positive, got %d", run.MaxIterations)
	}

	if run.JoinTimeoutMs < 0 {
		return invalid("run.jointimeoutms", "must not be negative, got %d", run.JoinTimeoutMs)
	}

	switch run.Index {
	case pathindex.KindQuadtree, pathindex.KindRTree:
	default:
		return invalid("run.index", "unknown path index %q", run.Index)
	}

	p := c.Physics
	if p.Mass <= 0 {
		return invalid("physics.mass", "must be positive, got %f", p.Mass)
	}

	if p.EnginePower <= 0 || p.DragCoefficient <= 0 || p.FrontalArea <= 0 {
		return invalid("physics", "engine power, drag coefficient and frontal area must be positive")
	}

	if p.SteeringDecay <= 0 {
		return invalid("physics.steeringdecay", "must be positive, got %f", p.SteeringDecay)
	}

	if p.FullSteeringSpeed <= 0 {
		return invalid("physics.fullsteeringspeed", "must be positive, got %f", p.FullSteeringSpeed)
	}

	if p.FullSteeringSpeed <= p.MinSteeringSpeed {
		return invalid("physics.fullsteeringspeed", "must exceed minsteeringspeed %f, got %f", p.MinSteeringSpeed, p.FullSteeringSpeed)
	}

	r := c.Recommendation
	if r.Steps <= 0 {
		return invalid("recommendation.steps", "must be positive, got %d", r.Steps)
	}

	if r.TrajectoryLength <= 0 {
		return invalid("recommendation.trajectorylength", "must be positive, got %f", r.TrajectoryLength)
	}

	if c.Export.ColourWindow <= 0 {
		return invalid("export.colourwindow", "must be positive, got %d", c.Export.ColourWindow)
	}

	if c.Export.SimplifyTolerance < 0 {
		return invalid("export.simplifytolerance", "must not be negative, got %f", c.Export.SimplifyTolerance)
	}

	return nil
}

// Parse overrides the defaults with the values of data
func Parse(data []byte) (Config, error) {
	config := DefaultConfig()

	if err := json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(err, "invalid JSON in config")
	}

	return config, config.Validate()
}

// Load reads a JSON config file. An empty filename falls back to the file
// named by RACELINE_CONFIG, then to the defaults.
func Load(filename string) (Config, error) {
	if strings.TrimSpace(filename) == "" {
		if fromEnv, exists := os.LookupEnv(EnvConfigFile); exists {
			filename = fromEnv
		} else {
			return DefaultConfig(), nil
		}
	}

	configpath := utils.ResolveFile(filename)

	if _, err := os.Stat(configpath); os.IsNotExist(err) {
		return DefaultConfig(), errors.New("missing config file: " + configpath)
	}

	buf, err := ioutil.ReadFile(configpath)
	if err != nil {
		return DefaultConfig(), errors.Wrap(err, "cannot read config file: "+configpath)
	}

	config, err := Parse(buf)
	if err != nil {
		return config, errors.Wrap(err, configpath)
	}

	return config, nil
}
