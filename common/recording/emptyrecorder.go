package recording

import (
	"github.com/bytearena/raceline/optimizer/state"
)

type EmptyRecorder struct{}

func MakeEmptyRecorder() EmptyRecorder {
	return EmptyRecorder{}
}

func (r EmptyRecorder) Record(sample state.TraceSample) error {
	return nil
}

func (r EmptyRecorder) RecordMetadata(metadata RecordMetadata) error {
	return nil
}

func (r EmptyRecorder) Close() error {
	return nil
}
