package track

import (
	"math"

	"github.com/bytearena/raceline/common/utils/vector"
)

// Polygon is implicitly closed: the last point connects to the first
type Polygon struct {
	points []vector.Vector2
}

func MakePolygon(points []vector.Vector2) Polygon {
	cp := make([]vector.Vector2, len(points))
	copy(cp, points)

	return Polygon{points: cp}
}

func (p Polygon) Points() []vector.Vector2 {
	cp := make([]vector.Vector2, len(p.points))
	copy(cp, p.points)

	return cp
}

func (p Polygon) Len() int {
	return len(p.points)
}

func (p Polygon) Clone() Polygon {
	return MakePolygon(p.points)
}

// Contains is the even-odd ray casting test. The crossing of each edge with
// the horizontal ray is compared by cross multiplication, without division.
func (p Polygon) Contains(point vector.Vector2) bool {
	n := len(p.points)
	if n < 3 {
		return false
	}

	x, y := point.Get()
	inside := false

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p.points[i].Get()
		xj, yj := p.points[j].Get()

		if (yi > y) == (yj > y) {
			continue
		}

		// x < xi + (y - yi) * (xj - xi) / (yj - yi), multiplied by (yj - yi)
		lhs := (x - xi) * (yj - yi)
		rhs := (y - yi) * (xj - xi)

		if (yj > yi && lhs < rhs) || (yj < yi && lhs > rhs) {
			inside = !inside
		}
	}

	return inside
}

// Area is the absolute shoelace area
func (p Polygon) Area() float64 {
	n := len(p.points)
	sum := 0.0

	for i := 0; i < n; i++ {
		sum += p.points[i].Cross(p.points[(i+1)%n])
	}

	return math.Abs(sum) / 2
}

func (p Polygon) Bounds() (min vector.Vector2, max vector.Vector2) {
	if len(p.points) == 0 {
		return vector.MakeNullVector2(), vector.MakeNullVector2()
	}

	minx, miny := p.points[0].Get()
	maxx, maxy := minx, miny

	for _, point := range p.points[1:] {
		x, y := point.Get()
		minx = math.Min(minx, x)
		miny = math.Min(miny, y)
		maxx = math.Max(maxx, x)
		maxy = math.Max(maxy, y)
	}

	return vector.MakeVector2(minx, miny), vector.MakeVector2(maxx, maxy)
}
