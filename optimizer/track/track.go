package track

import (
	polyclip "github.com/akavel/polyclip-go"
	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/vector"
)

// areaTolerance absorbs the float noise of the clipping of shared edges
const areaTolerance = 1e-6

// Track is the corridor between an outer and an inner boundary
type Track struct {
	outer Polygon
	inner Polygon
}

func MakeTrack(outer []vector.Vector2, inner []vector.Vector2) Track {
	return Track{
		outer: MakePolygon(outer),
		inner: MakePolygon(inner),
	}
}

func (t Track) Outer() Polygon {
	return t.outer
}

func (t Track) Inner() Polygon {
	return t.inner
}

// Clone returns a track which shares no memory with t
func (t Track) Clone() Track {
	return Track{
		outer: t.outer.Clone(),
		inner: t.inner.Clone(),
	}
}

func (t Track) PointInTrack(p vector.Vector2) bool {
	if !t.outer.Contains(p) {
		return false
	}

	return !t.inner.Contains(p)
}

// CorridorArea is the drivable area
func (t Track) CorridorArea() float64 {
	return t.outer.Area() - t.inner.Area()
}

// Validate checks that both boundaries are proper polygons and that the
// inner boundary lies within the outer one
func (t Track) Validate() error {
	if t.outer.Len() < 3 {
		return errors.Errorf("outer boundary needs at least 3 points, got %d", t.outer.Len())
	}

	if t.inner.Len() < 3 {
		return errors.Errorf("inner boundary needs at least 3 points, got %d", t.inner.Len())
	}

	if t.outer.Area() <= t.inner.Area() {
		return errors.New("outer boundary must enclose a larger area than the inner boundary")
	}

	outside := toClipPolygon(t.inner).Construct(polyclip.DIFFERENCE, toClipPolygon(t.outer))
	if area := clipArea(outside); area > areaTolerance {
		return errors.Errorf("inner boundary exceeds the outer boundary by %.3f square units", area)
	}

	return nil
}

func toClipPolygon(p Polygon) polyclip.Polygon {
	contour := make(polyclip.Contour, 0, p.Len())

	for _, point := range p.points {
		contour = append(contour, polyclip.Point{X: point.GetX(), Y: point.GetY()})
	}

	return polyclip.Polygon{contour}
}

func clipArea(p polyclip.Polygon) float64 {
	total := 0.0

	for _, contour := range p {
		points := make([]vector.Vector2, len(contour))
		for i, point := range contour {
			points[i] = vector.MakeVector2(point.X, point.Y)
		}

		total += Polygon{points: points}.Area()
	}

	return total
}
