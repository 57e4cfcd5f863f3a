package optimizer

import (
	"context"
	"strconv"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer/agent"
	"github.com/bytearena/raceline/optimizer/config"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
	"github.com/bytearena/raceline/optimizer/worker"
)

// ErrNoSolution is returned when every backtrack down to the first segment failed
var ErrNoSolution = errors.New("no solution found")

const eventsBuffer = 64

// Job is one attempt at one segment
type Job struct {
	Segment Segment
	Start   state.VehicleState
	Attempt int
}

// SegmentRunner runs an attempt and returns the result of every worker;
// failed workers give nil
type SegmentRunner func(ctx context.Context, job Job) []*state.SegmentResult

type TearDownCallback func() error

type Orchestrator struct {
	id   string
	name string

	config      config.Config
	track       track.Track
	path        pathindex.Path
	spawn       state.VehicleState
	checkpoints []Checkpoint

	runner SegmentRunner

	events    chan interface{}
	listening bool

	stats   Stats
	results []*state.SegmentResult

	mutex                  sync.Mutex
	cancel                 context.CancelFunc
	inflight               []*worker.Worker
	tearDownCallbacks      []TearDownCallback
	tearDownCallbacksMutex sync.Mutex
}

// NewOrchestrator checks the run inputs before anything is launched.
// A nil spawn is derived from the path.
func NewOrchestrator(tr track.Track, path pathindex.Path, spawn *state.VehicleState, cfg config.Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := tr.Validate(); err != nil {
		return nil, errors.Wrap(config.ErrInvalid, "track: "+err.Error())
	}

	checkpoints, err := BuildCheckpoints(path, cfg.Run.CheckpointCount)
	if err != nil {
		return nil, errors.Wrap(config.ErrInvalid, "path: "+err.Error())
	}

	var start state.VehicleState
	if spawn != nil {
		start = *spawn
	} else {
		start, err = SpawnPose(path)
		if err != nil {
			return nil, errors.Wrap(config.ErrInvalid, "spawn: "+err.Error())
		}
	}

	o := &Orchestrator{
		id:          ksuid.New().String(),
		name:        petname.Generate(2, "-"),
		config:      cfg,
		track:       tr.Clone(),
		path:        path.Clone(),
		spawn:       start,
		checkpoints: checkpoints,
		events:      make(chan interface{}, eventsBuffer),
	}

	o.runner = o.runWorkers
	o.AddTearDownCall(o.stopInflight)

	return o, nil
}

func (o *Orchestrator) GetId() string {
	return o.id
}

// GetName is a human readable run name
func (o *Orchestrator) GetName() string {
	return o.name
}

func (o *Orchestrator) Config() config.Config {
	return o.config
}

func (o *Orchestrator) Track() track.Track {
	return o.track
}

func (o *Orchestrator) Spawn() state.VehicleState {
	return o.spawn
}

func (o *Orchestrator) Checkpoints() []Checkpoint {
	return o.checkpoints
}

// SetSegmentRunner replaces the worker pool; it must be called before Run
func (o *Orchestrator) SetSegmentRunner(runner SegmentRunner) {
	o.runner = runner
}

// Events must be subscribed before Run; the channel is closed after EventClose
func (o *Orchestrator) Events() chan interface{} {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.listening = true

	return o.events
}

func (o *Orchestrator) emit(event interface{}) {
	o.mutex.Lock()
	listening := o.listening
	o.mutex.Unlock()

	if listening {
		o.events <- event
	}
}

// Stats is only consistent once Run returned
func (o *Orchestrator) Stats() Stats {
	return o.stats
}

// Results are the winning results of a completed run, ordered by segment
func (o *Orchestrator) Results() []*state.SegmentResult {
	return o.results
}

// Run searches every segment in turn and returns the stitched trace
func (o *Orchestrator) Run(ctx context.Context) (state.Trace, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mutex.Lock()
	o.cancel = cancel
	o.mutex.Unlock()

	defer func() {
		o.emit(EventClose{})

		o.mutex.Lock()
		if o.listening {
			close(o.events)
			o.listening = false
		}
		o.mutex.Unlock()
	}()

	begin := time.Now()
	defer func() { o.stats.Elapsed = time.Since(begin) }()

	o.stats = Stats{}
	o.results = nil

	s := newSearch(o.config.Run.CheckpointCount, limits{
		maxRetries:    o.config.Run.MaxRetries,
		maxBacktracks: o.config.Run.MaxBacktracks,
	})

	o.emit(EventLog{"Run " + o.name + " (" + o.id + "): " + strconv.Itoa(len(o.checkpoints)) + " segments"})
	utils.Debug("optimizer", "run "+o.id+" started with spawn "+o.spawn.String())

	for !s.done() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "run interrupted")
		}

		job := Job{
			Segment: SegmentAt(o.checkpoints, s.current),
			Start:   s.startState(o.spawn),
			Attempt: o.stats.Attempts,
		}

		o.emit(EventSegmentStart{Segment: job.Segment, Attempt: job.Attempt})

		best := state.Best(o.runner(ctx, job)...)
		o.stats.Attempts++

		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "run interrupted")
		}

		switch s.apply(best) {
		case transitionAdvance:
			o.emit(EventSegmentDone{Segment: job.Segment, Result: best, Solved: len(s.results)})
			o.emit(EventDebug{"segment " + strconv.Itoa(job.Segment.Index) + " solved in " + strconv.Itoa(best.Steps) + " steps"})

		case transitionRetry:
			o.stats.Retries++
			o.emit(EventWarn{errors.Errorf("segment %d failed, %d retries left", job.Segment.Index, s.retriesLeft)})

		case transitionBacktrack:
			o.stats.Backtracks++
			o.emit(EventWarn{errors.Errorf("segment %d exhausted its retries, backtracking to segment %d", job.Segment.Index, s.current)})

		case transitionFail:
			o.stats.SegmentsSolved = 0
			err := errors.Wrapf(ErrNoSolution, "after %d attempts and %d backtracks", o.stats.Attempts, o.stats.Backtracks)
			o.emit(EventError{err})
			return nil, err
		}
	}

	o.results = s.ordered()
	trace := s.flatten()

	o.stats.SegmentsSolved = len(o.results)
	o.stats.TotalSteps = len(trace)

	o.emit(EventLog{"Run " + o.name + " completed: " + strconv.Itoa(len(trace)) + " steps"})

	return trace, nil
}

// workerSeed is 0 for unseeded runs, so that agents seed from their identity
func (o *Orchestrator) workerSeed(job Job, workerIndex int) int64 {
	if o.config.Run.Seed == 0 {
		return 0
	}

	return agent.DeriveSeed(o.config.Run.Seed, job.Segment.Index, job.Attempt, workerIndex)
}

// runWorkers races the configured number of workers on the job and pools
// their results
func (o *Orchestrator) runWorkers(ctx context.Context, job Job) []*state.SegmentResult {
	workers := o.newWorkers(job)

	o.setInflight(workers)
	defer o.setInflight(nil)

	for _, w := range workers {
		w.Start(ctx)
	}

	if !o.join(ctx, workers) {
		o.emit(EventWarn{errors.Errorf("workers did not stop within %s", o.config.JoinTimeout())})
		return nil
	}

	results := make([]*state.SegmentResult, len(workers))
	for i, w := range workers {
		results[i] = w.Result()
	}

	return results
}

func (o *Orchestrator) newWorkers(job Job) []*worker.Worker {
	workers := make([]*worker.Worker, 0, o.config.Run.Workers)

	for i := 0; i < o.config.Run.Workers; i++ {
		wc := o.config.WorkerConfig()
		wc.Seed = o.workerSeed(job, i)

		w, err := worker.NewWorker(o.track, o.path, o.config.Physics, o.config.Recommendation, job.Segment, job.Start, wc)
		if err != nil {
			o.emit(EventWarn{errors.Wrap(err, "could not create worker")})
			continue
		}

		workers = append(workers, w)
	}

	return workers
}

func (o *Orchestrator) setInflight(workers []*worker.Worker) {
	o.mutex.Lock()
	o.inflight = workers
	o.mutex.Unlock()
}

// stopInflight is registered as a teardown call; it stops the workers of
// the attempt in progress, if any
func (o *Orchestrator) stopInflight() error {
	o.mutex.Lock()
	workers := o.inflight
	o.mutex.Unlock()

	for _, w := range workers {
		w.Stop()
	}

	return nil
}

// join waits for every worker; once ctx is done, workers are asked to stop
// and get a bounded time to do so
func (o *Orchestrator) join(ctx context.Context, workers []*worker.Worker) bool {
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for _, w := range workers {
			w.Wait(0)
		}
	}()

	select {
	case <-finished:
		return true
	case <-ctx.Done():
	}

	for _, w := range workers {
		w.Stop()
	}

	for _, w := range workers {
		if !w.Wait(o.config.JoinTimeout()) {
			return false
		}
	}

	return true
}
