package replay

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"io"
	"io/ioutil"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/recording"
	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

type rawRecordHandles struct {
	recordMetadata io.ReadCloser
	record         io.ReadCloser
	zip            *zip.ReadCloser
}

func (h *rawRecordHandles) Close() {
	if h.recordMetadata != nil {
		h.recordMetadata.Close()
	}

	if h.record != nil {
		h.record.Close()
	}

	if h.zip != nil {
		h.zip.Close()
	}
}

type ReplayMessage struct {
	Line  int
	State state.ReplayState
}

// Replayer streams the samples of a trace file, plain or archived
type Replayer struct {
	filename         string
	stopChannel      chan struct{}
	stopOnce         sync.Once
	streamingChannel chan *ReplayMessage
	rawRecordHandles *rawRecordHandles
	err              error
}

func NewReplayer(filename string) (*Replayer, error) {
	handles, err := open(filename)
	if err != nil {
		return nil, err
	}

	return &Replayer{
		filename:         filename,
		stopChannel:      make(chan struct{}),
		streamingChannel: make(chan *ReplayMessage),
		rawRecordHandles: handles,
	}, nil
}

// ReadMetadata is only available for archived traces
func (r *Replayer) ReadMetadata() (*recording.RecordMetadata, error) {
	if r.rawRecordHandles.recordMetadata == nil {
		return nil, errors.New("trace " + r.filename + " has no metadata")
	}

	data, err := ioutil.ReadAll(r.rawRecordHandles.recordMetadata)
	if err != nil {
		return nil, errors.Wrap(err, "could not read metadata")
	}

	var metadata recording.RecordMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, errors.Wrap(err, "could not decode metadata")
	}

	return &metadata, nil
}

// Read streams the samples; the channel is closed at the end of the trace,
// on the first invalid line (see Err) or on Stop
func (r *Replayer) Read() chan *ReplayMessage {
	reader := bufio.NewReader(r.rawRecordHandles.record)

	go func() {
		defer close(r.streamingChannel)
		defer r.rawRecordHandles.Close()

		lineno := 0
		for {
			line, readErr := utils.ReadFullLine(reader)
			if readErr == io.EOF {
				return
			}

			if readErr != nil {
				r.err = errors.Wrap(readErr, "could not read trace")
				return
			}

			lineno++

			if isComment(line) {
				continue
			}

			replayState, err := ParseLine(line)
			if err != nil {
				r.err = errors.Wrapf(err, "line %d", lineno)
				return
			}

			select {
			case r.streamingChannel <- &ReplayMessage{Line: lineno, State: replayState}:
			case <-r.stopChannel:
				return
			}
		}
	}()

	return r.streamingChannel
}

// Err is the error that ended Read, if any; it is set once the channel is closed
func (r *Replayer) Err() error {
	return r.err
}

func (r *Replayer) Stop() {
	utils.Debug("replayer", "stop replayer")

	r.stopOnce.Do(func() {
		close(r.stopChannel)
	})
}

func isComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// ParseLine parses x:y:heading[:throttle]; a missing throttle is 0
func ParseLine(line string) (state.ReplayState, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 3 || len(parts) > 4 {
		return state.ReplayState{}, errors.Errorf("expected x:y:heading[:throttle], got %q", line)
	}

	values := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return state.ReplayState{}, errors.Wrapf(err, "invalid value %q", part)
		}

		values[i] = value
	}

	return state.ReplayState{
		Position: vector.MakeVector2(values[0], values[1]),
		Bearing:  values[2],
		Throttle: values[3],
	}, nil
}

// ReadAll parses a whole plain trace
func ReadAll(r io.Reader) ([]state.ReplayState, error) {
	reader := bufio.NewReader(r)
	res := make([]state.ReplayState, 0)

	for lineno := 1; ; lineno++ {
		line, err := utils.ReadFullLine(reader)
		if err == io.EOF {
			return res, nil
		}

		if err != nil {
			return nil, errors.Wrap(err, "could not read trace")
		}

		if isComment(line) {
			continue
		}

		replayState, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}

		res = append(res, replayState)
	}
}

// ToTrace rebuilds a trace from replayed states; throttles are rounded to the
// nearest discrete input
func ToTrace(states []state.ReplayState) state.Trace {
	trace := make(state.Trace, len(states))

	for i, s := range states {
		trace[i] = state.TraceSample{
			Position: s.Position,
			Bearing:  s.Bearing,
			Action:   state.Action{Throttle: int(math.Round(number.Clamp(s.Throttle, -1, 1)))},
		}
	}

	return trace
}

func open(filename string) (*rawRecordHandles, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return unzip(filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open trace %s", filename)
	}

	return &rawRecordHandles{record: file}, nil
}

func unzip(filename string) (*rawRecordHandles, error) {
	handles := &rawRecordHandles{}

	reader, err := zip.OpenReader(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open zip file %s", filename)
	}

	handles.zip = reader

	for _, file := range reader.File {
		if file.Name != recording.ArchiveRecord && file.Name != recording.ArchiveRecordMetadata {
			continue
		}

		fd, err := file.Open()
		if err != nil {
			handles.Close()
			return nil, errors.Wrapf(err, "could not open %s in archive", file.Name)
		}

		if file.Name == recording.ArchiveRecord {
			handles.record = fd
		} else {
			handles.recordMetadata = fd
		}
	}

	if handles.record == nil {
		handles.Close()
		return nil, errors.Errorf("archive %s holds no %s", filename, recording.ArchiveRecord)
	}

	return handles, nil
}
