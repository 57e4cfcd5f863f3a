package replay

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/raceline/common/recording"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

const plainTrace = `# raceline test run
# spawn 45:0:180:0
45.1:0.5:181:1

45.2:1.0:182.5:-1
45.3:1.5:183
`

func TestParseLine(t *testing.T) {
	s, err := ParseLine("1.5:-2:90:-1")
	require.Nil(t, err)
	assert.Equal(t, state.ReplayState{Position: vector.MakeVector2(1.5, -2), Bearing: 90, Throttle: -1}, s)

	s, err = ParseLine("1:2:3")
	require.Nil(t, err)
	assert.Equal(t, 0.0, s.Throttle)

	for _, line := range []string{"1:2", "1:2:3:4:5", "a:2:3", "1;2;3"} {
		_, err := ParseLine(line)
		assert.NotNil(t, err, line)
	}
}

func TestReadAll(t *testing.T) {
	states, err := ReadAll(strings.NewReader(plainTrace))
	require.Nil(t, err)
	require.Len(t, states, 3)

	assert.Equal(t, vector.MakeVector2(45.2, 1.0), states[1].Position)
	assert.Equal(t, 182.5, states[1].Bearing)
	assert.Equal(t, -1.0, states[1].Throttle)

	_, err = ReadAll(strings.NewReader("# header\nnot a sample\n"))
	assert.NotNil(t, err)
}

func collect(r *Replayer) []state.ReplayState {
	res := make([]state.ReplayState, 0)
	for msg := range r.Read() {
		res = append(res, msg.State)
	}
	return res
}

func TestReplayerPlainFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-replay")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "trace.txt")
	require.Nil(t, ioutil.WriteFile(filename, []byte(plainTrace), 0644))

	r, err := NewReplayer(filename)
	require.Nil(t, err)

	assert.Len(t, collect(r), 3)
	assert.Nil(t, r.Err())

	_, err = r.ReadMetadata()
	assert.NotNil(t, err)
}

func TestReplayerArchive(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-replay")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	recorder := recording.MakeTraceRecorder(filepath.Join(dir, "trace.txt"), true)
	require.Nil(t, recorder.RecordMetadata(recording.RecordMetadata{
		RunId: "run",
		Spawn: state.MakeVehicleState(vector.MakeVector2(45, 0), 180),
	}))

	for i := 0; i < 5; i++ {
		require.Nil(t, recorder.Record(state.TraceSample{
			Position: vector.MakeVector2(float64(i), 0),
			Bearing:  90,
			Action:   state.ActionAccelerate,
		}))
	}
	require.Nil(t, recorder.Close())

	r, err := NewReplayer(recorder.ArchiveFilename())
	require.Nil(t, err)

	metadata, err := r.ReadMetadata()
	require.Nil(t, err)
	assert.Equal(t, "run", metadata.RunId)
	assert.Equal(t, vector.MakeVector2(45, 0), metadata.Spawn.Position)

	states := collect(r)
	require.Len(t, states, 5)
	assert.Equal(t, vector.MakeVector2(4, 0), states[4].Position)
	assert.Equal(t, 1.0, states[4].Throttle)
}

func TestReplayerInvalidLine(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-replay")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "trace.txt")
	require.Nil(t, ioutil.WriteFile(filename, []byte("1:2:3\nbroken\n4:5:6\n"), 0644))

	r, err := NewReplayer(filename)
	require.Nil(t, err)

	assert.Len(t, collect(r), 1)
	assert.NotNil(t, r.Err())
}

func TestReplayerStop(t *testing.T) {
	dir, err := ioutil.TempDir("", "raceline-replay")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "trace.txt")
	require.Nil(t, ioutil.WriteFile(filename, []byte(plainTrace), 0644))

	r, err := NewReplayer(filename)
	require.Nil(t, err)

	messages := r.Read()
	<-messages
	r.Stop()
	r.Stop()

	for range messages {
	}
}

func TestMissingFiles(t *testing.T) {
	_, err := NewReplayer("/nonexistent/trace.txt")
	assert.NotNil(t, err)

	_, err = NewReplayer("/nonexistent/trace.zip")
	assert.NotNil(t, err)
}

func TestToTrace(t *testing.T) {
	trace := ToTrace([]state.ReplayState{
		{Position: vector.MakeVector2(1, 2), Bearing: 90, Throttle: 1},
		{Position: vector.MakeVector2(2, 2), Bearing: 91, Throttle: -0.9},
		{Position: vector.MakeVector2(3, 2), Bearing: 92, Throttle: 0.2},
		{Position: vector.MakeVector2(4, 2), Bearing: 93, Throttle: 7},
	})

	require.Len(t, trace, 4)
	assert.Equal(t, vector.MakeVector2(1, 2), trace[0].Position)
	assert.Equal(t, 91.0, trace[1].Bearing)
	assert.Equal(t, []float64{1, -1, 0, 1}, recording.Throttles(trace))
}
