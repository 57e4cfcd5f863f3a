package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bytearena/raceline/common/utils/vector"
)

func circle(radius float64, n int) []vector.Vector2 {
	points := make([]vector.Vector2, n)

	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = vector.MakeVector2(radius*math.Cos(angle), radius*math.Sin(angle))
	}

	return points
}

func ring() Track {
	return MakeTrack(circle(50, 64), circle(40, 64))
}

func TestPolygonContains(t *testing.T) {
	square := MakePolygon([]vector.Vector2{
		vector.MakeVector2(0, 0),
		vector.MakeVector2(10, 0),
		vector.MakeVector2(10, 10),
		vector.MakeVector2(0, 10),
	})

	examples := []struct {
		Name     string
		Point    vector.Vector2
		Expected bool
	}{
		{Name: "center", Point: vector.MakeVector2(5, 5), Expected: true},
		{Name: "near a corner", Point: vector.MakeVector2(0.1, 9.9), Expected: true},
		{Name: "left", Point: vector.MakeVector2(-1, 5), Expected: false},
		{Name: "right", Point: vector.MakeVector2(11, 5), Expected: false},
		{Name: "above", Point: vector.MakeVector2(5, 11), Expected: false},
		{Name: "ray through a vertex", Point: vector.MakeVector2(-5, 0), Expected: false},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			assert.Equal(t, example.Expected, square.Contains(example.Point))
		})
	}

	// winding does not matter
	reversed := MakePolygon([]vector.Vector2{
		vector.MakeVector2(0, 10),
		vector.MakeVector2(10, 10),
		vector.MakeVector2(10, 0),
		vector.MakeVector2(0, 0),
	})
	assert.True(t, reversed.Contains(vector.MakeVector2(5, 5)))
	assert.False(t, reversed.Contains(vector.MakeVector2(15, 5)))

	// degenerate polygons contain nothing
	assert.False(t, MakePolygon(nil).Contains(vector.MakeNullVector2()))
}

func TestConcavePolygon(t *testing.T) {
	// U shape opened towards +y
	u := MakePolygon([]vector.Vector2{
		vector.MakeVector2(0, 0),
		vector.MakeVector2(30, 0),
		vector.MakeVector2(30, 30),
		vector.MakeVector2(20, 30),
		vector.MakeVector2(20, 10),
		vector.MakeVector2(10, 10),
		vector.MakeVector2(10, 30),
		vector.MakeVector2(0, 30),
	})

	assert.True(t, u.Contains(vector.MakeVector2(5, 20)))
	assert.True(t, u.Contains(vector.MakeVector2(25, 20)))
	assert.True(t, u.Contains(vector.MakeVector2(15, 5)))
	assert.False(t, u.Contains(vector.MakeVector2(15, 20)))
}

func TestPointInTrack(t *testing.T) {
	track := ring()

	for i := 0; i < 36; i++ {
		angle := 2 * math.Pi * float64(i) / 36

		at := func(radius float64) vector.Vector2 {
			return vector.MakeVector2(radius*math.Cos(angle), radius*math.Sin(angle))
		}

		assert.False(t, track.PointInTrack(at(0)), "center")
		assert.False(t, track.PointInTrack(at(39)), "inside the inner boundary")
		assert.True(t, track.PointInTrack(at(41)), "corridor, inner side")
		assert.True(t, track.PointInTrack(at(45)), "corridor")
		assert.True(t, track.PointInTrack(at(49)), "corridor, outer side")
		assert.False(t, track.PointInTrack(at(51)), "outside the outer boundary")
	}
}

func TestTrackClone(t *testing.T) {
	points := circle(50, 8)
	track := MakeTrack(points, circle(40, 8))

	// the track owns its points
	points[0] = vector.MakeVector2(1000, 1000)
	assert.Equal(t, vector.MakeVector2(50, 0), track.Outer().Points()[0])

	clone := track.Clone()
	assert.Equal(t, track.Outer().Points(), clone.Outer().Points())
	assert.Equal(t, track.Inner().Points(), clone.Inner().Points())
}

func TestTrackAreaAndBounds(t *testing.T) {
	track := MakeTrack(
		[]vector.Vector2{vector.MakeVector2(0, 0), vector.MakeVector2(10, 0), vector.MakeVector2(10, 10), vector.MakeVector2(0, 10)},
		[]vector.Vector2{vector.MakeVector2(2, 2), vector.MakeVector2(8, 2), vector.MakeVector2(8, 8), vector.MakeVector2(2, 8)},
	)

	assert.InDelta(t, 64.0, track.CorridorArea(), 1e-9)

	min, max := track.Outer().Bounds()
	assert.Equal(t, vector.MakeVector2(0, 0), min)
	assert.Equal(t, vector.MakeVector2(10, 10), max)
}

func TestTrackValidate(t *testing.T) {
	examples := []struct {
		Name  string
		Track Track
		Valid bool
	}{
		{Name: "ring", Track: ring(), Valid: true},
		{Name: "missing inner", Track: MakeTrack(circle(50, 16), nil), Valid: false},
		{Name: "swapped boundaries", Track: MakeTrack(circle(40, 16), circle(50, 16)), Valid: false},
		{
			Name:  "inner pokes out",
			Track: MakeTrack(circle(50, 32), shift(circle(30, 32), vector.MakeVector2(30, 0))),
			Valid: false,
		},
	}

	for _, example := range examples {
		t.Run(example.Name, func(t *testing.T) {
			err := example.Track.Validate()
			if example.Valid {
				assert.Nil(t, err)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func shift(points []vector.Vector2, by vector.Vector2) []vector.Vector2 {
	res := make([]vector.Vector2, len(points))
	for i, p := range points {
		res[i] = p.Add(by)
	}
	return res
}
