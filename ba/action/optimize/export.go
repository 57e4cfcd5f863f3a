package optimize

import (
	"os"
	"time"

	"github.com/pkg/errors"

	mapcmd "github.com/bytearena/raceline/ba/action/map"
	"github.com/bytearena/raceline/common/recording"
	"github.com/bytearena/raceline/optimizer"
	"github.com/bytearena/raceline/optimizer/config"
	"github.com/bytearena/raceline/optimizer/state"
)

type OutputFiles struct {
	Trace  string
	Binary string
}

// DefaultFiles names the exports after the run id unless configured
func DefaultFiles(export config.ExportConfig, runId string) OutputFiles {
	files := OutputFiles{
		Trace:  export.TraceFile,
		Binary: export.BinaryFile,
	}

	if files.Trace == "" {
		files.Trace = "raceline-" + runId + ".txt"
	}

	if files.Binary == "" {
		files.Binary = "raceline-" + runId + ".bin"
	}

	return files
}

func Metadata(o *optimizer.Orchestrator, loaded *mapcmd.LoadedTrack) recording.RecordMetadata {
	return recording.RecordMetadata{
		RunId:        o.GetId(),
		RunName:      o.GetName(),
		Date:         time.Now().Format(time.RFC3339),
		Spawn:        o.Spawn(),
		Stats:        o.Stats().String(),
		MapContainer: loaded.Container,
	}
}

// ExportTrace writes the flattened trace, zipped with its metadata when archive is set
func ExportTrace(filename string, archive bool, metadata recording.RecordMetadata, trace state.Trace) error {
	var recorder recording.Recorder = recording.MakeEmptyRecorder()
	if filename != "" {
		recorder = recording.MakeTraceRecorder(filename, archive)
	}

	if err := recorder.RecordMetadata(metadata); err != nil {
		return errors.Wrap(err, "Could not record metadata")
	}

	for _, sample := range trace {
		if err := recorder.Record(sample); err != nil {
			return errors.Wrap(err, "Could not record trace")
		}
	}

	return recorder.Close()
}

// ExportBinary writes the coloured, simplified trace alongside the track boundaries
func ExportBinary(filename string, loaded *mapcmd.LoadedTrack, trace state.Trace, export config.ExportConfig) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create binary export %s", filename)
	}
	defer f.Close()

	content := recording.MakeBinaryExport(
		loaded.Track.Outer().Points(),
		loaded.Track.Inner().Points(),
		trace,
		export.ColourWindow,
		export.SimplifyTolerance,
	)

	if err := content.Write(f); err != nil {
		return errors.Wrapf(err, "Could not write binary export %s", filename)
	}

	return nil
}
