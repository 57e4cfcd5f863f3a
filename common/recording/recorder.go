package recording

import (
	"github.com/bytearena/raceline/optimizer/state"
)

type Recorder interface {
	RecordMetadata(metadata RecordMetadata) error
	Record(sample state.TraceSample) error
	Close() error
}
