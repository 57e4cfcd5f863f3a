package recording

import (
	"encoding/json"
	"io/ioutil"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils"
	"github.com/bytearena/raceline/optimizer/state"
)

const (
	ArchiveRecord         = "Record"
	ArchiveRecordMetadata = "RecordMetadata"
)

// TraceRecorder buffers a trace and writes it to filename on Close; with
// archive set, a zip holding the trace and its metadata is written next to it
type TraceRecorder struct {
	buffer         strings.Builder
	filename       string
	archive        bool
	recordMetadata *RecordMetadata
}

func MakeTraceRecorder(filename string, archive bool) *TraceRecorder {
	return &TraceRecorder{
		filename: filename,
		archive:  archive,
	}
}

func (r *TraceRecorder) RecordMetadata(metadata RecordMetadata) error {
	if r.recordMetadata != nil {
		return errors.New("metadata already recorded")
	}

	if metadata.Date == "" {
		metadata.Date = time.Now().Format(time.RFC3339)
	}

	r.recordMetadata = &metadata

	for _, line := range HeaderLines(metadata) {
		r.buffer.WriteString(line + "\n")
	}

	utils.Debug("TraceRecorder", "created RecordMetadata")

	return nil
}

func (r *TraceRecorder) Record(sample state.TraceSample) error {
	if r.recordMetadata == nil {
		return errors.New("metadata must be recorded before samples")
	}

	r.buffer.WriteString(FormatSample(sample) + "\n")

	return nil
}

func (r *TraceRecorder) Close() error {
	if r.recordMetadata == nil {
		return errors.New("missing RecordMetadata")
	}

	if err := ioutil.WriteFile(r.filename, []byte(r.buffer.String()), 0644); err != nil {
		return errors.Wrapf(err, "could not write trace %s", r.filename)
	}

	utils.Debug("TraceRecorder", "wrote trace "+r.filename)

	if !r.archive {
		return nil
	}

	metadata, err := json.Marshal(*r.recordMetadata)
	if err != nil {
		return errors.Wrap(err, "could not serialize RecordMetadata")
	}

	files := []ArchiveFile{
		{Name: ArchiveRecordMetadata, Body: string(metadata)},
		{Name: ArchiveRecord, Body: r.buffer.String()},
	}

	if err := MakeArchive(r.ArchiveFilename(), files); err != nil {
		return errors.Wrap(err, "could not create record archive")
	}

	utils.Debug("TraceRecorder", "wrote record archive")

	return nil
}

func (r *TraceRecorder) ArchiveFilename() string {
	return r.filename + ".zip"
}
