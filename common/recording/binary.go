package recording

import (
	"io"

	"github.com/bytearena/raceline/common/types/mapcontainer"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

const DefaultSimplifyTolerance = 5.0

// BinaryExport is the content of the binary export, in stream order
type BinaryExport struct {
	Outer      []vector.Vector2
	Inner      []vector.Vector2
	Simplified []vector.Vector2
	Yellow     []vector.Vector2
	Red        []vector.Vector2
}

// MakeBinaryExport colours the trace, simplifies every colour run and
// collects the coloured edges
func MakeBinaryExport(outer, inner []vector.Vector2, trace state.Trace, window int, tolerance float64) BinaryExport {
	runs := SimplifyColouredSegments(
		ColouredSegments(trace.Positions(), ColourWeighting(Throttles(trace), window)),
		tolerance,
	)

	return BinaryExport{
		Outer:      outer,
		Inner:      inner,
		Simplified: Polyline(runs),
		Yellow:     EdgesOf(runs, Yellow),
		Red:        EdgesOf(runs, Red),
	}
}

func (e BinaryExport) Write(w io.Writer) error {
	return mapcontainer.WritePointBlocks(w, e.Outer, e.Inner, e.Simplified, e.Yellow, e.Red)
}

// ReadBinaryExport reads back the five blocks of a binary export
func ReadBinaryExport(r io.Reader) (BinaryExport, error) {
	var e BinaryExport

	for _, block := range []*[]vector.Vector2{&e.Outer, &e.Inner, &e.Simplified, &e.Yellow, &e.Red} {
		points, err := mapcontainer.ReadPointBlock(r)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return e, err
		}

		*block = points
	}

	return e, nil
}
