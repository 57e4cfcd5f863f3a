package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer/agent"
	"github.com/bytearena/raceline/optimizer/container"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
)

type Config struct {
	BatchSize        int
	DecisionInterval int
	MaxIterations    int
	TriggerRadius    float64
	IndexKind        string
	// Seed is the base of the agents' seeds; 0 seeds every agent from its identity
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		BatchSize:        100,
		DecisionInterval: 5,
		MaxIterations:    20000,
		TriggerRadius:    container.DefaultTriggerRadius,
		IndexKind:        pathindex.KindQuadtree,
	}
}

// Worker runs a batch of agent containers through one segment.
// It owns deep copies of the track, the path and the index it drives on.
type Worker struct {
	id      uuid.UUID
	segment state.Segment
	config  Config

	env        agent.Environment
	containers []*container.AgentContainer

	stopped    int32
	iterations int
	result     *state.SegmentResult

	wg sync.WaitGroup
}

func NewWorker(tr track.Track, path pathindex.Path, physicsConfig physics.Config, recommendation agent.RecommendationConfig, segment state.Segment, start state.VehicleState, config Config) (*Worker, error) {
	if config.BatchSize <= 0 {
		return nil, errors.Errorf("invalid batch size %d", config.BatchSize)
	}

	if config.DecisionInterval <= 0 {
		config.DecisionInterval = 1
	}

	index, err := pathindex.New(config.IndexKind, path.Clone())
	if err != nil {
		return nil, errors.Wrap(err, "could not build worker path index")
	}

	w := &Worker{
		id:      uuid.Must(uuid.NewV4()),
		segment: segment,
		config:  config,
		env: agent.Environment{
			Track:          tr.Clone(),
			Index:          index,
			Physics:        physicsConfig,
			Recommendation: recommendation,
		},
		containers: make([]*container.AgentContainer, config.BatchSize),
	}

	for i := range w.containers {
		var seed int64
		if config.Seed != 0 {
			seed = agent.DeriveSeed(config.Seed, i)
		}

		w.containers[i] = container.NewAgentContainer(
			agent.MakeAgent(w.env, start, seed),
			segment,
			config.TriggerRadius,
		)
	}

	return w, nil
}

func (w *Worker) GetId() uuid.UUID {
	return w.id
}

// Run steps the batch until a container completes, none is left running,
// the worker is stopped or ctx is done. It returns the completed container
// with the fewest steps, nil when none completed.
func (w *Worker) Run(ctx context.Context) *state.SegmentResult {
	for w.iterations = 0; w.config.MaxIterations <= 0 || w.iterations < w.config.MaxIterations; w.iterations++ {
		if w.isStopped() || ctx.Err() != nil {
			break
		}

		decide := w.iterations%w.config.DecisionInterval == 0
		running := 0
		completed := false

		for _, cnt := range w.containers {
			if !cnt.ShouldRun() {
				continue
			}

			running++
			cnt.Step(decide)

			if cnt.IsCompleted() {
				completed = true
			}
		}

		if completed || running == 0 {
			break
		}
	}

	w.result = w.winner()

	if w.result == nil {
		utils.Debug("worker", "no agent completed "+w.segment.String())
	}

	return w.result
}

func (w *Worker) winner() *state.SegmentResult {
	var best *container.AgentContainer

	for _, cnt := range w.containers {
		if !cnt.IsCompleted() {
			continue
		}

		if best == nil || cnt.Steps() < best.Steps() {
			best = cnt
		}
	}

	if best == nil {
		return nil
	}

	return best.Result()
}

// Start runs the worker on its own goroutine
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		w.Run(ctx)
	}()
}

// Stop asks the loop to end at its next iteration
func (w *Worker) Stop() {
	atomic.StoreInt32(&w.stopped, 1)
}

func (w *Worker) isStopped() bool {
	return atomic.LoadInt32(&w.stopped) == 1
}

// Wait blocks until the started worker returns; it is false on timeout.
// A non-positive timeout waits forever.
func (w *Worker) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		w.wg.Wait()
		return true
	}

	return utils.WaitTimeout(&w.wg, timeout)
}

// Result is only safe to read once Run returned or Wait succeeded
func (w *Worker) Result() *state.SegmentResult {
	return w.result
}

func (w *Worker) Iterations() int {
	return w.iterations
}

func (w *Worker) Containers() []*container.AgentContainer {
	return w.containers
}
