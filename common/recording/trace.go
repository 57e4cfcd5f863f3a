package recording

import (
	"bufio"
	"io"
	"strconv"

	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/optimizer/state"
)

const tracePrecision = 5

// FormatSample is the x:y:heading:throttle line of a sample
func FormatSample(sample state.TraceSample) string {
	return FormatLine(sample.Position.GetX(), sample.Position.GetY(), sample.Bearing, float64(sample.Action.Throttle))
}

func FormatLine(x, y, heading, throttle float64) string {
	return number.FloatToStr(x, tracePrecision) + ":" +
		number.FloatToStr(y, tracePrecision) + ":" +
		number.FloatToStr(heading, tracePrecision) + ":" +
		strconv.FormatFloat(throttle, 'f', -1, 64)
}

// HeaderLines are the commented lines opening a trace file
func HeaderLines(metadata RecordMetadata) []string {
	lines := []string{
		"# raceline " + metadata.RunName + " " + metadata.RunId,
	}

	if metadata.Date != "" {
		lines = append(lines, "# date "+metadata.Date)
	}

	spawn := metadata.Spawn
	lines = append(lines, "# spawn "+FormatLine(spawn.Position.GetX(), spawn.Position.GetY(), spawn.Bearing, 0))

	if metadata.Stats != "" {
		lines = append(lines, "# "+metadata.Stats)
	}

	return lines
}

// WriteTrace writes a whole trace file at once
func WriteTrace(w io.Writer, metadata RecordMetadata, trace state.Trace) error {
	bw := bufio.NewWriter(w)

	for _, line := range HeaderLines(metadata) {
		bw.WriteString(line + "\n")
	}

	for _, sample := range trace {
		bw.WriteString(FormatSample(sample) + "\n")
	}

	return bw.Flush()
}
