package mapcontainer

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/number"
	"github.com/bytearena/raceline/common/utils/vector"
)

// MapContainer is the on-disk description of a track: a ground whose outline
// holds the outer then the inner boundary, an optional spawn and the reference path
type MapContainer struct {
	Meta struct {
		Readme     string `json:"readme"`
		Name       string `json:"name"`
		Date       string `json:"date"`
		Repository string `json:"repository"`
	} `json:"meta"`
	Data struct {
		Grounds  []MapGround `json:"grounds"`
		Starts   []MapStart  `json:"starts"`
		Raceline MapPolygon  `json:"raceline"`
	} `json:"data"`
}

type MapPoint struct {
	X float64
	Y float64
}

func MakeMapPoint(v vector.Vector2) MapPoint {
	return MapPoint{X: v.GetX(), Y: v.GetY()}
}

func (p MapPoint) ToVector2() vector.Vector2 {
	return vector.MakeVector2(p.X, p.Y)
}

func (p *MapPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{
		number.ToFixed(p.X, 5),
		number.ToFixed(p.Y, 5),
	})
}

func (a *MapPoint) UnmarshalJSON(b []byte) error {
	var floats []float64
	if err := json.Unmarshal(b, &floats); err != nil {
		return err
	}

	if len(floats) != 2 {
		return errors.Errorf("a point needs 2 coordinates, got %d", len(floats))
	}

	a.X = floats[0]
	a.Y = floats[1]

	return nil
}

type MapGround struct {
	Id      string       `json:"id"`
	Outline []MapPolygon `json:"outline"`
}

func MakeMapGround(id string, polygons []MapPolygon) MapGround {
	return MapGround{
		Id:      id,
		Outline: polygons,
	}
}

type MapPolygon struct {
	Points []MapPoint
}

func MakeMapPolygon(points []vector.Vector2) MapPolygon {
	res := MapPolygon{Points: make([]MapPoint, len(points))}

	for i, p := range points {
		res.Points[i] = MakeMapPoint(p)
	}

	return res
}

func (p MapPolygon) ToVector2s() []vector.Vector2 {
	res := make([]vector.Vector2, len(p.Points))

	for i, point := range p.Points {
		res[i] = point.ToVector2()
	}

	return res
}

func (p *MapPolygon) MarshalJSON() ([]byte, error) {
	points := make([]*MapPoint, len(p.Points))
	for i := range p.Points {
		points[i] = &p.Points[i]
	}

	return json.Marshal(points)
}

func (a *MapPolygon) UnmarshalJSON(b []byte) error {
	var points []MapPoint
	if err := json.Unmarshal(b, &points); err != nil {
		return err
	}

	a.Points = points

	return nil
}

// MapStart is an explicit spawn; Bearing is in degrees, nil when it must be derived from the path
type MapStart struct {
	Id      string   `json:"id"`
	Point   MapPoint `json:"point"`
	Bearing *float64 `json:"bearing,omitempty"`
}

func MakeMapContainer(name string, outer, inner, raceline []vector.Vector2) *MapContainer {
	m := &MapContainer{}
	m.Meta.Name = name
	m.Data.Grounds = []MapGround{
		MakeMapGround("track", []MapPolygon{
			MakeMapPolygon(outer),
			MakeMapPolygon(inner),
		}),
	}
	m.Data.Raceline = MakeMapPolygon(raceline)

	return m
}

func Parse(data []byte) (*MapContainer, error) {
	var m MapContainer

	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "could not decode track")
	}

	return &m, nil
}

func (m *MapContainer) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Boundaries returns the outer and inner boundaries of the first ground
func (m *MapContainer) Boundaries() (outer []vector.Vector2, inner []vector.Vector2, err error) {
	if len(m.Data.Grounds) == 0 {
		return nil, nil, errors.New("track has no ground")
	}

	outline := m.Data.Grounds[0].Outline
	if len(outline) < 2 {
		return nil, nil, errors.Errorf("ground %q needs an outer and an inner outline, got %d", m.Data.Grounds[0].Id, len(outline))
	}

	return outline[0].ToVector2s(), outline[1].ToVector2s(), nil
}

func (m *MapContainer) Raceline() []vector.Vector2 {
	return m.Data.Raceline.ToVector2s()
}

func (m *MapContainer) Start() (MapStart, bool) {
	if len(m.Data.Starts) == 0 {
		return MapStart{}, false
	}

	return m.Data.Starts[0], true
}
