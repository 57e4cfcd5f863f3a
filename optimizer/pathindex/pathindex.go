package pathindex

import (
	"math"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/trigo"
	"github.com/bytearena/raceline/common/utils/vector"
)

const (
	KindQuadtree = "quadtree"
	KindRTree    = "rtree"
)

// Path is the ordered reference path; adjacency wraps around its ends
type Path []vector.Vector2

func (p Path) Clone() Path {
	res := make(Path, len(p))
	copy(res, p)

	return res
}

// At returns the point at i modulo the path length
func (p Path) At(i int) vector.Vector2 {
	n := len(p)
	return p[((i%n)+n)%n]
}

// Index answers nearest-point queries against a path
type Index interface {
	// Nearest returns the index of the path vertex closest to p and its distance
	Nearest(p vector.Vector2) (int, float64)
	DistanceToPath(p vector.Vector2) float64
	Path() Path
}

// New builds an index of the given kind over its own copy of path
func New(kind string, path Path) (Index, error) {
	switch kind {
	case KindQuadtree, "":
		return NewQuadtree(path), nil
	case KindRTree:
		return NewRTree(path), nil
	}

	return nil, errors.Errorf("unknown path index %q", kind)
}

// refine corrects a nearest-vertex answer with the two path segments
// adjacent to that vertex
func refine(path Path, p vector.Vector2, closest int, vertexDistance float64) float64 {
	n := len(path)
	if n < 2 {
		return vertexDistance
	}

	c := path[closest]
	prev := trigo.DistanceToSegment(p, path.At(closest-1), c)
	next := trigo.DistanceToSegment(p, c, path.At(closest+1))

	return math.Min(vertexDistance, math.Min(prev, next))
}

// bruteForceNearest is the reference linear scan
func bruteForceNearest(path Path, p vector.Vector2) (int, float64) {
	if len(path) == 0 {
		return -1, 0
	}

	best := 0
	bestSq := p.DistanceSqTo(path[0])

	for i := 1; i < len(path); i++ {
		if d := p.DistanceSqTo(path[i]); d < bestSq {
			best = i
			bestSq = d
		}
	}

	return best, math.Sqrt(bestSq)
}
