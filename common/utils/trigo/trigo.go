package trigo

import (
	"math"

	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/common/utils/vector"
)

// ClosestPointOnSegment projects p on [a, b], clamped to the segment ends
func ClosestPointOnSegment(p vector.Vector2, a vector.Vector2, b vector.Vector2) vector.Vector2 {
	ab := b.Sub(a)
	lenSq := ab.MagSq()

	if number.IsZero(lenSq) {
		return a
	}

	t := number.Clamp01(p.Sub(a).Dot(ab) / lenSq)

	return a.Add(ab.MultScalar(t))
}

func DistanceToSegment(p vector.Vector2, a vector.Vector2, b vector.Vector2) float64 {
	return p.DistanceTo(ClosestPointOnSegment(p, a, b))
}

// PerpendicularDistance is the distance from p to the infinite line through a and b.
// A degenerate line falls back to the distance to a.
func PerpendicularDistance(p vector.Vector2, a vector.Vector2, b vector.Vector2) float64 {
	line := b.Sub(a)

	if line.MagSq() < 0.0001 {
		return p.DistanceTo(a)
	}

	return math.Abs(line.Cross(p.Sub(a))) / line.Mag()
}

// PolylineLength sums the edge lengths of points; closed adds the last to first edge
func PolylineLength(points []vector.Vector2, closed bool) float64 {
	total := 0.0

	for i := 1; i < len(points); i++ {
		total += points[i-1].DistanceTo(points[i])
	}

	if closed && len(points) > 1 {
		total += points[len(points)-1].DistanceTo(points[0])
	}

	return total
}

func FullCircleAngleToSignedHalfCircleAngle(rad float64) float64 {
	if rad > math.Pi {
		rad -= math.Pi * 2
	} else if rad < -math.Pi {
		rad += math.Pi * 2
	}

	return rad
}
