package trigo

import (
	"github.com/bytearena/raceline/common/utils/vector"
)

// SimplifyLine reduces a polyline with the Douglas-Peucker algorithm.
// Endpoints are always kept; lines of two points or less are returned as is.
func SimplifyLine(points []vector.Vector2, tolerance float64) []vector.Vector2 {
	if len(points) <= 2 {
		return points
	}

	return douglasPeucker(points, tolerance)
}

func douglasPeucker(points []vector.Vector2, tolerance float64) []vector.Vector2 {
	last := len(points) - 1

	if last < 2 {
		res := make([]vector.Vector2, len(points))
		copy(res, points)
		return res
	}

	maxDistance := 0.0
	maxIndex := 0

	for i := 1; i < last; i++ {
		distance := PerpendicularDistance(points[i], points[0], points[last])
		if distance > maxDistance {
			maxDistance = distance
			maxIndex = i
		}
	}

	if maxDistance <= tolerance {
		return []vector.Vector2{points[0], points[last]}
	}

	first := douglasPeucker(points[:maxIndex+1], tolerance)
	second := douglasPeucker(points[maxIndex:], tolerance)

	// second starts with the split point, already present at the end of first
	return append(first, second[1:]...)
}
