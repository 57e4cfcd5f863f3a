package pathindex

import (
	"github.com/dhconnelly/rtreego"

	"github.com/bytearena/raceline/common/utils/vector"
)

const (
	rtreeMinChildren = 3
	rtreeMaxChildren = 8
)

type pathVertex struct {
	index  int
	bounds rtreego.Rect
}

func (v *pathVertex) Bounds() rtreego.Rect {
	return v.bounds
}

// RTree answers the same queries as Quadtree with an R-tree of the path vertices
type RTree struct {
	path Path
	tree *rtreego.Rtree
}

func NewRTree(path Path) *RTree {
	r := &RTree{path: path.Clone()}

	spatials := make([]rtreego.Spatial, len(r.path))
	for i, p := range r.path {
		spatials[i] = &pathVertex{
			index:  i,
			bounds: rtreego.Point{p.GetX(), p.GetY()}.ToRect(0),
		}
	}

	r.tree = rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, spatials...)

	return r
}

func (r *RTree) Nearest(p vector.Vector2) (int, float64) {
	if len(r.path) == 0 {
		return -1, 0
	}

	found := r.tree.NearestNeighbor(rtreego.Point{p.GetX(), p.GetY()})
	if found == nil {
		return bruteForceNearest(r.path, p)
	}

	i := found.(*pathVertex).index

	return i, p.DistanceTo(r.path[i])
}

func (r *RTree) DistanceToPath(p vector.Vector2) float64 {
	if len(r.path) == 0 {
		return 0
	}

	closest, distance := r.Nearest(p)

	return refine(r.path, p, closest, distance)
}

func (r *RTree) Path() Path {
	return r.path
}
