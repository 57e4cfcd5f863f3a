package optimize

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mapcmd "github.com/bytearena/raceline/ba/action/map"
	"github.com/bytearena/raceline/common/recording"
	"github.com/bytearena/raceline/common/replay"
	"github.com/bytearena/raceline/common/types/mapcontainer"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer"
	"github.com/bytearena/raceline/optimizer/config"
	"github.com/bytearena/raceline/optimizer/state"
)

func circle(radius float64, n int) []vector.Vector2 {
	res := make([]vector.Vector2, n)
	for i := range res {
		a := 2 * math.Pi * float64(i) / float64(n)
		res[i] = vector.MakeVector2(radius*math.Cos(a), radius*math.Sin(a))
	}

	return res
}

func ring(t *testing.T) *mapcmd.LoadedTrack {
	loaded, err := mapcmd.MakeLoadedTrack("ring", mapcontainer.MakeMapContainer("ring", circle(50, 32), circle(40, 32), circle(45, 64)))
	require.Nil(t, err)

	return loaded
}

func arc(n int) state.Trace {
	trace := make(state.Trace, n)
	for i := range trace {
		a := math.Pi * float64(i) / float64(n)
		trace[i] = state.TraceSample{
			Position: vector.MakeVector2(45*math.Cos(a), 45*math.Sin(a)),
			Bearing:  180,
			Action:   state.ActionAccelerate,
		}
	}

	return trace
}

func TestApplyOverrides(t *testing.T) {
	cfg := ApplyOverrides(config.DefaultConfig(), Options{
		Seed:        42,
		Workers:     4,
		Checkpoints: 12,
		Index:       "rtree",
		TraceFile:   "out.txt",
	})

	assert.Equal(t, int64(42), cfg.Run.Seed)
	assert.Equal(t, 4, cfg.Run.Workers)
	assert.Equal(t, 12, cfg.Run.CheckpointCount)
	assert.Equal(t, "rtree", cfg.Run.Index)
	assert.Equal(t, "out.txt", cfg.Export.TraceFile)

	// zero values keep the configuration
	assert.Equal(t, config.DefaultConfig().Run.BatchSize, cfg.Run.BatchSize)
	assert.Equal(t, "", cfg.Export.BinaryFile)
}

func TestDefaultFiles(t *testing.T) {
	files := DefaultFiles(config.ExportConfig{}, "run")
	assert.Equal(t, OutputFiles{Trace: "raceline-run.txt", Binary: "raceline-run.bin"}, files)

	files = DefaultFiles(config.ExportConfig{TraceFile: "a.txt"}, "run")
	assert.Equal(t, "a.txt", files.Trace)
	assert.Equal(t, "raceline-run.bin", files.Binary)
}

func TestExports(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-optimize")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	loaded := ring(t)

	o, err := optimizer.NewOrchestrator(loaded.Track, loaded.Path, loaded.Spawn, config.DefaultConfig())
	require.Nil(t, err)

	files := DefaultFiles(config.ExportConfig{}, o.GetId())
	files.Trace = filepath.Join(dir, files.Trace)
	files.Binary = filepath.Join(dir, files.Binary)

	trace := arc(120)

	require.Nil(t, ExportTrace(files.Trace, true, Metadata(o, loaded), trace))
	require.Nil(t, ExportBinary(files.Binary, loaded, trace, config.DefaultConfig().Export))

	data, err := ioutil.ReadFile(files.Trace)
	require.Nil(t, err)
	assert.True(t, strings.Contains(string(data), o.GetId()))

	states, err := replay.ReadAll(strings.NewReader(string(data)))
	require.Nil(t, err)
	assert.Len(t, states, len(trace))

	replayer, err := replay.NewReplayer(files.Trace + ".zip")
	require.Nil(t, err)

	metadata, err := replayer.ReadMetadata()
	require.Nil(t, err)
	assert.Equal(t, o.GetName(), metadata.RunName)

	f, err := os.Open(files.Binary)
	require.Nil(t, err)
	defer f.Close()

	export, err := recording.ReadBinaryExport(f)
	require.Nil(t, err)
	assert.Len(t, export.Outer, 32)
	assert.Len(t, export.Inner, 32)
	assert.NotEmpty(t, export.Simplified)

	// always accelerating, every window is green
	assert.Empty(t, export.Yellow)
	assert.Empty(t, export.Red)
}

func TestExportTraceWithoutFile(t *testing.T) {
	assert.Nil(t, ExportTrace("", false, recording.RecordMetadata{}, arc(3)))
}

func TestProfileStopsOnTearDown(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-profile")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	loaded := ring(t)

	o, err := optimizer.NewOrchestrator(loaded.Track, loaded.Path, loaded.Spawn, config.DefaultConfig())
	require.Nil(t, err)

	filename := filepath.Join(dir, "cpu.prof")
	startProfile(o, filename)
	o.TearDown()

	info, err := os.Stat(filename)
	require.Nil(t, err)
	assert.True(t, info.Size() > 0)

	// profiling is off again once torn down
	require.Nil(t, pprof.StartCPUProfile(ioutil.Discard))
	pprof.StopCPUProfile()
}
