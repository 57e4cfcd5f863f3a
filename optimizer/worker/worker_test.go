package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/agent"
	"github.com/bytearena/raceline/optimizer/pathindex"
	"github.com/bytearena/raceline/optimizer/physics"
	"github.com/bytearena/raceline/optimizer/state"
	"github.com/bytearena/raceline/optimizer/track"
)

func square(half float64) []vector.Vector2 {
	return []vector.Vector2{
		vector.MakeVector2(-half, -half),
		vector.MakeVector2(half, -half),
		vector.MakeVector2(half, half),
		vector.MakeVector2(-half, half),
	}
}

// a straight lane along y = 50, driven towards +x
func straightWorker(t *testing.T, path pathindex.Path, config Config) *Worker {
	seg := state.Segment{
		Index:    0,
		Start:    state.Checkpoint{PathIndex: 0, Position: vector.MakeVector2(-80, 50)},
		Goal:     state.Checkpoint{PathIndex: 1, Position: vector.MakeVector2(-40, 50)},
		Validate: state.Checkpoint{PathIndex: 2, Position: vector.MakeVector2(0, 50)},
	}

	w, err := NewWorker(
		track.MakeTrack(square(100), square(1)),
		path,
		physics.DefaultConfig(),
		agent.DefaultRecommendationConfig(),
		seg,
		state.MakeVehicleState(seg.Start.Position, 90),
		config,
	)
	require.Nil(t, err)

	return w
}

func lane() pathindex.Path {
	return pathindex.Path{vector.MakeVector2(-100, 50), vector.MakeVector2(100, 50)}
}

func testConfig() Config {
	config := DefaultConfig()
	config.BatchSize = 20
	config.Seed = 11

	return config
}

func TestWinnerHasFewestSteps(t *testing.T) {
	w := straightWorker(t, lane(), testConfig())

	result := w.Run(context.Background())
	require.NotNil(t, result)

	completed := 0
	for _, cnt := range w.Containers() {
		if cnt.IsCompleted() {
			completed++
			assert.True(t, result.Steps <= cnt.Steps())
		}
	}

	assert.True(t, completed > 0)
	assert.Equal(t, result, w.Result())
	assert.Equal(t, result.Steps, len(result.Trace))
	assert.True(t, result.Handoff.Position.DistanceTo(vector.MakeVector2(-40, 50)) < 5)
	assert.True(t, w.Iterations() < DefaultConfig().MaxIterations)
}

func TestSeededWorkersAreReproducible(t *testing.T) {
	a := straightWorker(t, lane(), testConfig()).Run(context.Background())
	b := straightWorker(t, lane(), testConfig()).Run(context.Background())

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Steps, b.Steps)
	assert.Equal(t, a.Trace, b.Trace)
}

func TestStoppedWorkerReturnsNothing(t *testing.T) {
	w := straightWorker(t, lane(), testConfig())
	w.Stop()

	assert.Nil(t, w.Run(context.Background()))
	assert.Equal(t, 0, w.Iterations())
}

func TestCancelledContext(t *testing.T) {
	w := straightWorker(t, lane(), testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.Start(ctx)
	require.True(t, w.Wait(time.Second))
	assert.Nil(t, w.Result())
}

func TestIterationCap(t *testing.T) {
	config := testConfig()
	config.MaxIterations = 3

	w := straightWorker(t, lane(), config)

	assert.Nil(t, w.Run(context.Background()))
	assert.Equal(t, 3, w.Iterations())
	for _, cnt := range w.Containers() {
		assert.Equal(t, 3, cnt.Steps())
	}
}

func TestWorkerOwnsItsPath(t *testing.T) {
	path := lane()
	w := straightWorker(t, path, testConfig())

	path[0] = vector.MakeVector2(-100, -50)

	assert.Equal(t, vector.MakeVector2(-100, 50), w.env.Index.Path()[0])
}

func TestInvalidBatchSize(t *testing.T) {
	_, err := NewWorker(track.MakeTrack(square(100), square(1)), lane(), physics.DefaultConfig(), agent.DefaultRecommendationConfig(), state.Segment{}, state.VehicleState{}, Config{})
	assert.NotNil(t, err)
}
