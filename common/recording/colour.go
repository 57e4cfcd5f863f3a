package recording

import (
	"github.com/bytearena/raceline/common/utils/trigo"
	"github.com/bytearena/raceline/common/utils/vector"
	"github.com/bytearena/raceline/optimizer/state"
)

type Colour int

const (
	Green Colour = iota
	Yellow
	Red
)

const (
	DefaultColourWindow = 50

	// per window of DefaultColourWindow samples, scaled for other windows
	redThreshold    = 10
	yellowThreshold = 25
)

func (c Colour) String() string {
	switch c {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	}

	return "unknown"
}

func Throttles(trace state.Trace) []float64 {
	res := make([]float64, len(trace))

	for i, sample := range trace {
		res[i] = float64(sample.Action.Throttle)
	}

	return res
}

// ColourWeighting colours samples by fixed windows: a window is red when
// enough of its samples do not drive at full throttle nor coast, yellow when
// enough of them coast, green otherwise
func ColourWeighting(throttles []float64, window int) []Colour {
	if window <= 0 {
		window = DefaultColourWindow
	}

	red := thresholdFor(redThreshold, window)
	yellow := thresholdFor(yellowThreshold, window)

	colours := make([]Colour, len(throttles))

	for start := 0; start < len(throttles); start += window {
		end := start + window
		if end > len(throttles) {
			end = len(throttles)
		}

		braking, coasting := 0, 0
		for _, throttle := range throttles[start:end] {
			switch throttle {
			case 0:
				coasting++
			case 1:
			default:
				braking++
			}
		}

		colour := Green
		if braking >= red {
			colour = Red
		} else if coasting >= yellow {
			colour = Yellow
		}

		for i := start; i < end; i++ {
			colours[i] = colour
		}
	}

	return colours
}

func thresholdFor(threshold int, window int) int {
	if window == DefaultColourWindow {
		return threshold
	}

	scaled := threshold * window / DefaultColourWindow
	if scaled < 1 {
		scaled = 1
	}

	return scaled
}

// ColouredRun is a polyline whose edges all share one colour
type ColouredRun struct {
	Colour Colour
	Points []vector.Vector2
}

// ColouredSegments groups the edges (i, i+1) of points, coloured by
// colours[i], into runs of the same colour; consecutive runs share an endpoint
func ColouredSegments(points []vector.Vector2, colours []Colour) []ColouredRun {
	runs := make([]ColouredRun, 0)

	for i := 0; i+1 < len(points) && i < len(colours); i++ {
		last := len(runs) - 1

		if last >= 0 && runs[last].Colour == colours[i] {
			runs[last].Points = append(runs[last].Points, points[i+1])
			continue
		}

		runs = append(runs, ColouredRun{
			Colour: colours[i],
			Points: []vector.Vector2{points[i], points[i+1]},
		})
	}

	return runs
}

// SimplifyColouredSegments simplifies every run on its own, so that colour
// boundaries are kept
func SimplifyColouredSegments(runs []ColouredRun, tolerance float64) []ColouredRun {
	res := make([]ColouredRun, len(runs))

	for i, run := range runs {
		res[i] = ColouredRun{
			Colour: run.Colour,
			Points: trigo.SimplifyLine(run.Points, tolerance),
		}
	}

	return res
}

// Polyline joins the runs back into one line
func Polyline(runs []ColouredRun) []vector.Vector2 {
	res := make([]vector.Vector2, 0)

	for i, run := range runs {
		if i == 0 {
			res = append(res, run.Points...)
		} else if len(run.Points) > 0 {
			res = append(res, run.Points[1:]...)
		}
	}

	return res
}

// EdgesOf lists the edges of the runs of the given colour as point pairs
func EdgesOf(runs []ColouredRun, colour Colour) []vector.Vector2 {
	res := make([]vector.Vector2, 0)

	for _, run := range runs {
		if run.Colour != colour {
			continue
		}

		for i := 0; i+1 < len(run.Points); i++ {
			res = append(res, run.Points[i], run.Points[i+1])
		}
	}

	return res
}
